package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/goerror"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
)

type RegisterInput struct {
	Username        string `validate:"required,min=3"`
	Contact         string `validate:"required,contact"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// Register creates the account and hands the contact off to verification.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) error {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)
	in.Contact = strings.TrimSpace(in.Contact)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	res, err := s.backend.Register(ctx, RegisterRequest{
		Username: in.Username,
		Password: in.Password,
		Contact:  in.Contact,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to register account", "username", in.Username, "error", err)
		return goerror.WithFallback(err, "Registration failed. Please try again.")
	}

	slog.InfoContext(ctx, "account registered", "user_id", res.UserID, "mode", res.Delivery.Mode().String())

	s.navigator.Navigate(entity.RouteVerify, entity.HandOff{Identifier: in.Contact, Delivery: res.Delivery})

	return nil
}

type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Login signs in. An unverified account is routed to verification instead.
func (s *Usecase) Login(ctx context.Context, in LoginInput) error {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	res, err := s.backend.Login(ctx, in.Username, in.Password)
	if err != nil {
		slog.WarnContext(ctx, "failed to login", "username", in.Username, "error", err)
		return goerror.WithFallback(err, "Login failed. Please try again.")
	}

	if res.NeedsVerification {
		if res.Contact == "" {
			slog.ErrorContext(ctx, "login needs verification but no contact returned", "username", in.Username)
			return goerror.NewServer(entity.ErrMissingIdentifier, "Login failed. Please try again.")
		}

		s.navigator.Navigate(entity.RouteVerify, entity.HandOff{Identifier: res.Contact, Delivery: res.Delivery})
		return nil
	}

	if err := s.session.Set(ctx, res.Session); err != nil {
		return goerror.NewServer(err, "Login failed. Please try again.")
	}

	s.navigator.Navigate(entity.RouteAdmin, entity.HandOff{})

	return nil
}

// SetupRequired reports whether no admin exists yet. Failures read as false.
func (s *Usecase) SetupRequired(ctx context.Context) bool {
	ctx, span := s.startSpan(ctx, "SetupRequired")
	defer span.End()

	required, err := s.backend.SetupStatus(ctx)
	if err != nil {
		slog.WarnContext(ctx, "setup status check failed", "error", err)
		return false
	}

	return required
}

type SetupInput struct {
	Username        string `validate:"required,min=3"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// SetupAdmin creates the first admin account and signs it in.
func (s *Usecase) SetupAdmin(ctx context.Context, in SetupInput) error {
	ctx, span := s.startSpan(ctx, "SetupAdmin")
	defer span.End()

	in.Username = strings.TrimSpace(in.Username)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	sess, err := s.backend.SetupAdmin(ctx, in.Username, in.Password)
	if err != nil {
		slog.WarnContext(ctx, "failed to setup admin", "username", in.Username, "error", err)
		return goerror.WithFallback(err, "Setup failed. Please try again.")
	}

	if err := s.session.Set(ctx, sess); err != nil {
		return goerror.NewServer(err, "Setup failed. Please try again.")
	}

	s.navigator.Navigate(entity.RouteAdmin, entity.HandOff{})

	return nil
}
