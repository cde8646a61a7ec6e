package verification

import (
	"context"
	"io"
	"log/slog"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/clock"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/config"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/goroutine"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/instrument"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/session"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/validator"
	"github.com/shandysiswandi/moviebuzz/internal/verification/inbound"
	"github.com/shandysiswandi/moviebuzz/internal/verification/usecase"
)

type Dependency struct {
	Backend    usecase.AuthBackend        `validate:"required"`
	Session    *session.Store             `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	In         io.Reader                  `validate:"required"`
	Out        io.Writer                  `validate:"required"`
}

// Module is the wired registration, login and verification client.
type Module struct {
	uc   *usecase.Usecase
	term *inbound.Terminal
}

func New(dep Dependency) (*Module, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	term := inbound.NewTerminal(inbound.Config{
		In:        dep.In,
		Out:       dep.Out,
		Goroutine: dep.Goroutine,
	})

	uc := usecase.New(usecase.Dependency{
		Backend:    dep.Backend,
		Session:    dep.Session,
		Navigator:  term,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterTerminal(term, uc)

	return &Module{uc: uc, term: term}, nil
}

// Run restores the stored session and serves the terminal until ctx is done
// or the user quits.
func (m *Module) Run(ctx context.Context) error {
	if err := m.uc.Restore(ctx); err != nil {
		slog.WarnContext(ctx, "failed to restore session", "error", err)
	}

	return m.term.Run(ctx)
}
