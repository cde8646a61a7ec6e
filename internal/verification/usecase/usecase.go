package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/clock"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/config"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/instrument"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/session"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/validator"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// RegisterRequest is the registration form input.
type RegisterRequest struct {
	Username string
	Password string
	Contact  string
}

// RegisterResult carries what the verification screen needs after registration.
type RegisterResult struct {
	UserID   string
	Message  string
	Delivery entity.Delivery
}

// LoginResult is the outcome of a password login.
type LoginResult struct {
	Session           session.Session
	NeedsVerification bool
	Contact           string
	Delivery          entity.Delivery
}

// AuthBackend is the external auth service.
type AuthBackend interface {
	Register(ctx context.Context, in RegisterRequest) (RegisterResult, error)
	Login(ctx context.Context, username, password string) (LoginResult, error)
	IssueCode(ctx context.Context, contact string) (entity.Delivery, error)
	VerifyCode(ctx context.Context, contact, code string) (session.Session, error)
	VerifyToken(ctx context.Context, token string) (session.User, error)
	SetupStatus(ctx context.Context) (bool, error)
	SetupAdmin(ctx context.Context, username, password string) (session.Session, error)
}

// Navigator moves the client between screens. handOff is only meaningful
// for entity.RouteVerify.
type Navigator interface {
	Navigate(route entity.Route, handOff entity.HandOff)
}

type sessionStore interface {
	Hydrate(ctx context.Context, verifier session.TokenVerifier) error
	Set(ctx context.Context, sess session.Session) error
	Clear(ctx context.Context) error
	Current() session.Session
	IsAuthenticated() bool
	IsVerified() bool
	Authorize(ctx context.Context, object, action string) error
}

// Usecase runs the registration, login and verification flows.
type Usecase struct {
	backend   AuthBackend
	session   sessionStore
	navigator Navigator
	validator validator.Validator
	cfg       config.Config
	clock     clock.Clocker
	ins       instrument.Instrumentation

	submitCounter metric.Int64Counter
	resendCounter metric.Int64Counter
}

// Dependency holds the collaborators required by New.
type Dependency struct {
	Backend    AuthBackend
	Session    sessionStore
	Navigator  Navigator
	Validator  validator.Validator
	Config     config.Config
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

// New builds a Usecase from dep.
func New(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("verification.usecase")

	return &Usecase{
		backend:       dep.Backend,
		session:       dep.Session,
		navigator:     dep.Navigator,
		validator:     dep.Validator,
		cfg:           dep.Config,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		submitCounter: newCounter(meter, "verification.submit", "Verification code submissions"),
		resendCounter: newCounter(meter, "verification.resend", "Verification code resend requests"),
	}
}

func newCounter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Warn("failed to create counter, using noop", "name", name, "error", err)
		return metricnoop.Int64Counter{}
	}
	return c
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}

func (s *Usecase) cooldownSeconds() int {
	if n := s.cfg.GetInt("verification.cooldown_seconds"); n > 0 {
		return n
	}
	return 60
}

func (s *Usecase) redirectDelay() time.Duration {
	if d := s.cfg.GetMillisecond("verification.redirect_delay_millis"); d > 0 {
		return d
	}
	return 1500 * time.Millisecond
}

func (s *Usecase) bannerTTL() time.Duration {
	if d := s.cfg.GetSecond("verification.banner_ttl_seconds"); d > 0 {
		return d
	}
	return 3 * time.Second
}
