// Package goroutine runs asynchronous UI handlers (code submission and
// resend) with a concurrency cap, panic recovery and a final Wait.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 16

// Manager runs handlers in goroutines, at most limit at a time. Errors
// returned by handlers are kept and reported by Wait.
type Manager struct {
	mu      sync.Mutex
	closed  bool
	running int
	limit   int
	errs    []error
	wg      sync.WaitGroup
}

// NewManager creates a Manager that runs at most maxGoroutine handlers at once.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{limit: maxGoroutine}
}

// Go starts f and reports whether it was started. Nothing runs once Wait was
// called or while the limit is reached. If ctx is already done when the
// goroutine starts, f is skipped.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) bool {
	if g == nil {
		return false
	}

	g.mu.Lock()
	switch {
	case g.closed:
		g.mu.Unlock()
		slog.WarnContext(ctx, "goroutine manager is closed, handler dropped")
		return false
	case g.running >= g.limit:
		g.mu.Unlock()
		slog.WarnContext(ctx, "goroutine limit reached, handler dropped", "limit", g.limit)
		return false
	}
	g.running++
	g.wg.Add(1)
	g.mu.Unlock()

	go g.run(ctx, f)

	return true
}

func (g *Manager) run(ctx context.Context, f func(ctx context.Context) error) {
	defer g.wg.Done()
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "handler panicked", "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "handler panicked", "panic", rvr, "stack", string(stack))
			}
		}

		g.mu.Lock()
		g.running--
		g.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		slog.WarnContext(ctx, "handler skipped", "because", err)
		return
	}

	if err := f(ctx); err != nil {
		g.mu.Lock()
		g.errs = append(g.errs, err)
		g.mu.Unlock()
	}
}

// Wait closes the manager, blocks until running handlers return and joins
// their errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}
