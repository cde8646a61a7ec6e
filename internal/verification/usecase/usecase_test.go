package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/clock"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/config"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/instrument"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/kvstore"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/session"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/validator"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
)

type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	register    func(ctx context.Context, in RegisterRequest) (RegisterResult, error)
	login       func(ctx context.Context, username, password string) (LoginResult, error)
	issueCode   func(ctx context.Context, contact string) (entity.Delivery, error)
	verifyCode  func(ctx context.Context, contact, code string) (session.Session, error)
	verifyToken func(ctx context.Context, token string) (session.User, error)
	setupStatus func(ctx context.Context) (bool, error)
	setupAdmin  func(ctx context.Context, username, password string) (session.Session, error)
}

func (f *fakeBackend) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Register(ctx context.Context, in RegisterRequest) (RegisterResult, error) {
	f.hit("Register")
	return f.register(ctx, in)
}

func (f *fakeBackend) Login(ctx context.Context, username, password string) (LoginResult, error) {
	f.hit("Login")
	return f.login(ctx, username, password)
}

func (f *fakeBackend) IssueCode(ctx context.Context, contact string) (entity.Delivery, error) {
	f.hit("IssueCode")
	return f.issueCode(ctx, contact)
}

func (f *fakeBackend) VerifyCode(ctx context.Context, contact, code string) (session.Session, error) {
	f.hit("VerifyCode")
	return f.verifyCode(ctx, contact, code)
}

func (f *fakeBackend) VerifyToken(ctx context.Context, token string) (session.User, error) {
	f.hit("VerifyToken")
	return f.verifyToken(ctx, token)
}

func (f *fakeBackend) SetupStatus(ctx context.Context) (bool, error) {
	f.hit("SetupStatus")
	return f.setupStatus(ctx)
}

func (f *fakeBackend) SetupAdmin(ctx context.Context, username, password string) (session.Session, error) {
	f.hit("SetupAdmin")
	return f.setupAdmin(ctx, username, password)
}

type navCall struct {
	route   entity.Route
	handOff entity.HandOff
}

type fakeNavigator struct {
	mu    sync.Mutex
	calls []navCall
}

func (n *fakeNavigator) Navigate(route entity.Route, h entity.HandOff) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, navCall{route: route, handOff: h})
}

func (n *fakeNavigator) last() (navCall, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.calls) == 0 {
		return navCall{}, false
	}
	return n.calls[len(n.calls)-1], true
}

func (n *fakeNavigator) len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

type harness struct {
	uc      *Usecase
	backend *fakeBackend
	nav     *fakeNavigator
	store   *session.Store
	clock   *clock.Fake
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  name: moviebuzz-test\n"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	enf, err := session.NewEnforcer()
	if err != nil {
		t.Fatalf("enforcer: %v", err)
	}

	fc := clock.NewFake(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	store := session.New(kvstore.NewMemory(), session.Options{Authorizer: enf, Clock: fc, Backoff: time.Millisecond})
	backend := &fakeBackend{}
	nav := &fakeNavigator{}

	uc := New(Dependency{
		Backend:    backend,
		Session:    store,
		Navigator:  nav,
		Validator:  v,
		Config:     cfg,
		Clock:      fc,
		Instrument: instrument.NewNoop(),
	})

	return &harness{uc: uc, backend: backend, nav: nav, store: store, clock: fc}
}
