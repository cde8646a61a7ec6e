package app

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/goroutine"
)

func newStopApp(done <-chan struct{}, closed chan<- string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		ctx:       ctx,
		cancel:    cancel,
		goroutine: goroutine.NewManager(1),
		done:      done,
	}
	a.closers = append(a.closers, struct {
		name string
		fn   func(context.Context) error
	}{name: "session", fn: func(context.Context) error {
		closed <- "session"
		return nil
	}})

	return a
}

func TestApp_StopWaitsForTerminal(t *testing.T) {
	t.Parallel()

	// Arrange
	done := make(chan struct{})
	closed := make(chan string, 1)
	a := newStopApp(done, closed)

	stopped := make(chan struct{})

	// Act
	go func() {
		defer close(stopped)
		a.Stop(context.Background())
	}()

	// Assert
	select {
	case name := <-closed:
		t.Fatalf("closer %q ran before the terminal stopped", name)
	case <-time.After(50 * time.Millisecond):
	}

	if a.ctx.Err() == nil {
		t.Fatal("Stop() did not cancel the app context")
	}

	close(done)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop() did not return after the terminal stopped")
	}
	if got := <-closed; got != "session" {
		t.Fatalf("closer = %q, want session", got)
	}
}

func TestApp_StopGivesUpOnDeadline(t *testing.T) {
	t.Parallel()

	// Arrange
	closed := make(chan string, 1)
	a := newStopApp(make(chan struct{}), closed)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Act
	a.Stop(ctx)

	// Assert
	select {
	case got := <-closed:
		if got != "session" {
			t.Fatalf("closer = %q, want session", got)
		}
	default:
		t.Fatal("Stop() did not run closers after the deadline")
	}
}
