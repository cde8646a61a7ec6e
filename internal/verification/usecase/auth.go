package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/goerror"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/session"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
)

// VerifyCode checks code for identifier and, on success, writes the session.
// This is the only session write of the verification flow.
func (s *Usecase) VerifyCode(ctx context.Context, identifier, code string) (session.Session, error) {
	ctx, span := s.startSpan(ctx, "VerifyCode")
	defer span.End()

	const fallback = "Verification failed. Please try again."

	sess, err := s.backend.VerifyCode(ctx, identifier, code)
	if err != nil {
		slog.WarnContext(ctx, "verification code not accepted", "identifier", identifier, "error", err)
		err = goerror.WithFallback(err, fallback)
		if goerror.IsServer(err) {
			return session.Session{}, err
		}

		var ge *goerror.Error
		errors.As(err, &ge)
		return session.Session{}, goerror.NewBusinessCause(errors.Join(entity.ErrVerificationRejected, err), ge.Msg(), ge.Code())
	}

	if sess.Token == "" {
		slog.ErrorContext(ctx, "verification accepted without a token", "identifier", identifier)
		return session.Session{}, goerror.NewServer(errors.New("empty token"), fallback)
	}

	if err := s.session.Set(ctx, sess); err != nil {
		return session.Session{}, goerror.NewServer(err, fallback)
	}

	slog.InfoContext(ctx, "verification succeeded", "user_id", sess.User.ID)

	return sess, nil
}

// ResendCode asks the auth service to issue a fresh code for identifier.
func (s *Usecase) ResendCode(ctx context.Context, identifier string) (entity.Delivery, error) {
	ctx, span := s.startSpan(ctx, "ResendCode")
	defer span.End()

	d, err := s.backend.IssueCode(ctx, identifier)
	if err != nil {
		slog.WarnContext(ctx, "failed to issue verification code", "identifier", identifier, "error", err)
		err = goerror.WithFallback(err, "Failed to send code. Please try again.")
		return entity.Delivery{}, goerror.NewBusinessCause(errors.Join(entity.ErrResendFailed, err), goerror.Message(err), goerror.CodeInternal)
	}

	return d, nil
}

// Logout drops the session and returns to the login screen.
func (s *Usecase) Logout(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	if err := s.session.Clear(ctx); err != nil {
		return goerror.NewServer(err, "")
	}

	s.navigator.Navigate(entity.RouteLogin, entity.HandOff{})

	return nil
}

// Restore hydrates the session store from client storage.
func (s *Usecase) Restore(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Restore")
	defer span.End()

	return s.session.Hydrate(ctx, s.backend)
}

// Current returns the loaded session.
func (s *Usecase) Current() session.Session {
	return s.session.Current()
}

// Authorize runs the verification gate for object/action.
func (s *Usecase) Authorize(ctx context.Context, object, action string) error {
	return s.session.Authorize(ctx, object, action)
}
