package inbound

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/goroutine"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/session"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
	"github.com/shandysiswandi/moviebuzz/internal/verification/usecase"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) error
	Login(ctx context.Context, in usecase.LoginInput) error
	SetupRequired(ctx context.Context) bool
	SetupAdmin(ctx context.Context, in usecase.SetupInput) error
	Logout(ctx context.Context) error
	Current() session.Session
	Authorize(ctx context.Context, object, action string) error
	OpenVerification(ctx context.Context, h entity.HandOff) *usecase.Verifier
}

type Config struct {
	In        io.Reader
	Out       io.Writer
	Goroutine *goroutine.Manager
}

// Terminal is the line-oriented client screen. It is the Navigator of the
// verification use cases.
type Terminal struct {
	in        io.Reader
	out       io.Writer
	goroutine *goroutine.Manager
	uc        uc

	ctx      context.Context
	pending  sync.WaitGroup
	outMu    sync.Mutex
	mu       sync.Mutex
	screen   entity.Route
	verifier *usecase.Verifier
}

func NewTerminal(cfg Config) *Terminal {
	return &Terminal{
		in:        cfg.In,
		out:       cfg.Out,
		goroutine: cfg.Goroutine,
		ctx:       context.Background(),
		screen:    entity.RouteHome,
	}
}

// RegisterTerminal binds the use cases to the terminal.
func RegisterTerminal(t *Terminal, uc uc) {
	t.uc = uc
}

// Run reads commands until quit, EOF or ctx is done. In-flight requests are
// awaited before it returns.
func (t *Terminal) Run(ctx context.Context) error {
	t.mu.Lock()
	t.ctx = ctx
	t.mu.Unlock()

	defer t.shutdown()

	t.Start(ctx)

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(t.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if !t.Handle(ctx, line) {
				return nil
			}
		}
	}
}

// Start shows the first screen for the current session.
func (t *Terminal) Start(ctx context.Context) {
	switch {
	case t.uc.Current().Authenticated():
		t.Navigate(entity.RouteAdmin, entity.HandOff{})
	case t.uc.SetupRequired(ctx):
		t.printf("No admin account exists yet. Use: setup <username> <password> <confirm>\n")
		t.Navigate(entity.RouteLogin, entity.HandOff{})
	default:
		t.Navigate(entity.RouteLogin, entity.HandOff{})
	}
}

// Wait blocks until dispatched submit/resend handlers have finished.
func (t *Terminal) Wait() {
	t.pending.Wait()
}

func (t *Terminal) shutdown() {
	t.Wait()

	t.mu.Lock()
	v := t.verifier
	t.verifier = nil
	t.mu.Unlock()

	if v != nil {
		v.Close()
	}
}

// Navigate switches screens. Leaving the verification screen closes it.
func (t *Terminal) Navigate(route entity.Route, h entity.HandOff) {
	t.mu.Lock()
	prev := t.verifier
	t.verifier = nil
	t.screen = route
	ctx := t.ctx
	t.mu.Unlock()

	if prev != nil {
		prev.Close()
	}

	if route != entity.RouteVerify {
		t.render(route, nil)
		return
	}

	// OpenVerification may redirect, which re-enters Navigate.
	v := t.uc.OpenVerification(ctx, h)

	t.mu.Lock()
	if t.screen != entity.RouteVerify || t.verifier != nil {
		t.mu.Unlock()
		v.Close()
		return
	}
	t.verifier = v
	t.mu.Unlock()

	t.render(route, v)
}

func (t *Terminal) current() (entity.Route, *usecase.Verifier) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen, t.verifier
}

// dispatch runs fn through the goroutine manager so input keeps flowing.
func (t *Terminal) dispatch(ctx context.Context, fn func(ctx context.Context)) {
	t.pending.Add(1)
	ok := t.goroutine.Go(context.WithoutCancel(ctx), func(context.Context) error {
		defer t.pending.Done()
		fn(ctx)
		return nil
	})
	if !ok {
		t.pending.Done()
		t.printf("Too many requests in progress, try again.\n")
	}
}

func (t *Terminal) printf(format string, args ...any) {
	t.outMu.Lock()
	defer t.outMu.Unlock()

	_, _ = fmt.Fprintf(t.out, format, args...)
}

func fields(line string) (string, []string) {
	f := strings.Fields(line)
	if len(f) == 0 {
		return "", nil
	}
	return strings.ToLower(f[0]), f[1:]
}
