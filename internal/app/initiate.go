package app

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/clock"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/config"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/goroutine"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/hash"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/instrument"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/jwt"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/kvstore"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/otp"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/session"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/uid"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/validator"
	"github.com/shandysiswandi/moviebuzz/internal/verification/outbound/authapi"
	"github.com/shandysiswandi/moviebuzz/internal/verification/outbound/demoauth"
)

const (
	backendHTTP = "http"
	backendDemo = "demo"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.max_goroutine"))
	a.bcrypt = hash.NewBcrypt(a.config.GetInt("demoauth.bcrypt_cost"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake()
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow

	a.totp = otp.NewTOTP(
		a.config.GetString("demoauth.totp_issuer"),
		a.config.GetSecond("demoauth.totp_period_seconds"),
	)
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret: []byte(a.config.GetString("demoauth.jwt_secret")),
		Issuer: a.config.GetString("demoauth.jwt_issuer"),
		TTL:    a.config.GetMinute("demoauth.jwt_ttl_minutes"),
		Clock:  a.clock,
		UUID:   a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

func (a *App) initStorage() {
	driver := strings.TrimSpace(a.config.GetString("storage.driver"))

	if strings.EqualFold(driver, kvstore.DriverRedis) {
		opt, err := redis.ParseURL(a.config.GetString("storage.redis.url"))
		if err != nil {
			slog.Error("failed to parse redis url", "error", err)
			os.Exit(1)
		}

		rdb := redis.NewClient(opt)

		pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			slog.Error("failed to init redis", "error", err)
			os.Exit(1)
		}

		a.cacheConn = rdb
	}

	kv, err := kvstore.NewFromDriver(driver, kvstore.FactoryOptions{
		Redis: kvstore.RedisOptions{
			Client: a.cacheConn,
			Prefix: a.config.GetString("storage.redis.prefix"),
		},
	})
	if err != nil {
		slog.Error("failed to init storage", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.kv = kv
}

func (a *App) initSession() {
	e, err := session.NewEnforcer()
	if err != nil {
		slog.Error("failed to init casbin", "error", err)
		os.Exit(1)
	}
	a.casbin = e

	a.session = session.New(a.kv, session.Options{
		StorageKey: a.config.GetString("session.storage_key"),
		Authorizer: a.casbin,
		Clock:      a.clock,
		MaxRetries: uint64(a.config.GetUint("session.verify_max_retries")),
		Backoff:    a.config.GetMillisecond("session.verify_backoff_millis"),
	})
}

func (a *App) initAuthBackend() {
	driver := strings.ToLower(strings.TrimSpace(a.config.GetString("auth.driver")))

	switch driver {
	case backendHTTP:
		a.backend = authapi.NewClient(authapi.Config{
			BaseURL:    a.config.GetString("authapi.base_url"),
			Timeout:    a.config.GetSecond("authapi.timeout_seconds"),
			UUID:       a.uuid,
			Instrument: a.ins,
		})
	case backendDemo:
		slog.Warn("auth backend is running in demo mode, codes are displayed instead of delivered")
		a.backend = demoauth.New(demoauth.Dependency{
			OTP:   a.totp,
			Hash:  a.bcrypt,
			JWT:   a.jwt,
			UID:   a.uid,
			Clock: a.clock,
		})
	default:
		slog.Error("failed to init auth backend", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Storage",
			fn: func(context.Context) error {
				return a.kv.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}

				return a.cacheConn.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
