package app

import (
	"context"

	"github.com/casbin/casbin/v3"
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
	"github.com/shandysiswandi/moviebuzz/internal/verification"
	"github.com/shandysiswandi/moviebuzz/internal/verification/usecase"
)

// App wires dependencies and manages the client lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	bcrypt    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	totp      otp.OTP
	jwt       jwt.JWT

	// resources
	cacheConn *redis.Client
	kv        kvstore.KV
	casbin    *casbin.Enforcer
	session   *session.Store
	backend   usecase.AuthBackend

	// client
	verification *verification.Module
	done         <-chan struct{}

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initStorage()
	app.initSession()
	app.initAuthBackend()
	app.initModules()
	app.initClosers()

	return app
}
