package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// Start runs the terminal client and returns a channel closed when the user
// quits or a termination signal arrives.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})
	done := make(chan struct{})
	a.done = done

	go func() {
		defer close(done)

		if err := a.verification.Run(a.ctx); err != nil {
			slog.ErrorContext(a.ctx, "terminal stopped with error", "error", err)
		}
	}()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		select {
		case <-sigint:
		case <-done:
		}

		if a.cancel != nil {
			a.cancel()
		}

		close(terminateChan)

		slog.Info("application gracefully shutdown")
	}()

	return terminateChan
}

// Stop cancels in-flight work and closes resources.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	// The terminal drains its in-flight handlers before Run returns; they
	// may still write the session store.
	if a.done != nil {
		select {
		case <-a.done:
		case <-ctx.Done():
			slog.WarnContext(ctx, "terminal did not stop in time", "error", ctx.Err())
		}
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}
	slog.InfoContext(ctx, "all goroutines have finished successfully")

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}
}
