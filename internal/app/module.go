package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/moviebuzz/internal/verification"
)

func (a *App) initModules() {
	mod, err := verification.New(verification.Dependency{
		Backend:    a.backend,
		Session:    a.session,
		Goroutine:  a.goroutine,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
		Clock:      a.clock,
		In:         os.Stdin,
		Out:        os.Stdout,
	})
	if err != nil {
		slog.Error("failed to init module verification", "error", err)
		os.Exit(1)
	}

	a.verification = mod
}
