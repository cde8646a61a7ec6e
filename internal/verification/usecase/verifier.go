package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/clock"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/goerror"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
)

const (
	msgIncompleteCode = "Please enter the complete 6-digit code"
	msgVerified       = "Verified successfully! Redirecting..."
	msgResent         = "New code generated!"
)

// Verifier is one verification screen. All methods are safe for concurrent
// use; network calls run outside the lock.
type Verifier struct {
	uc *Usecase

	mu         sync.Mutex
	identifier string
	cells      entity.Cells
	focus      int
	cooldown   int
	delivery   entity.Delivery
	errMsg     string
	success    string
	state      entity.State
	submitting bool
	resending  bool

	ticker   clock.Timer
	redirect clock.Timer
	banner   clock.Timer

	// closed is set once by Close; responses arriving later are dropped.
	closed atomic.Bool
}

// OpenVerification enters the verification screen with the hand-off state.
func (s *Usecase) OpenVerification(ctx context.Context, h entity.HandOff) *Verifier {
	v := &Verifier{uc: s, identifier: h.Identifier, delivery: h.Delivery}

	if h.Identifier == "" {
		slog.InfoContext(ctx, "verification opened without identifier, redirecting")
		v.state = entity.StateNoIdentifier
		s.navigator.Navigate(entity.RouteRegister, entity.HandOff{})
		return v
	}

	if s.session.IsAuthenticated() && s.session.IsVerified() {
		v.state = entity.StateAlreadyVerified
		s.navigator.Navigate(entity.RouteAdmin, entity.HandOff{})
		return v
	}

	v.state = entity.StateAwaitingInput
	v.cooldown = s.cooldownSeconds()
	v.ticker = s.clock.Every(time.Second, v.Tick)

	return v
}

func (v *Verifier) inactiveLocked() bool {
	return v.closed.Load() || v.state.Terminal()
}

// SetDigit types value into cell index. It reports whether the input was
// accepted; rejected input changes nothing.
func (v *Verifier) SetDigit(index int, value string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.inactiveLocked() || v.state == entity.StateSubmitting {
		return false
	}

	next, err := v.cells.SetDigit(index, value)
	if err != nil {
		return false
	}
	v.focus = next

	return true
}

// Backspace moves focus left from an empty cell.
func (v *Verifier) Backspace(index int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.inactiveLocked() || index < 0 || index >= entity.CodeLength {
		return
	}

	v.focus = v.cells.Backspace(index)
}

// Paste replaces the cells with the digits of text.
func (v *Verifier) Paste(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.inactiveLocked() || v.state == entity.StateSubmitting {
		return
	}

	v.cells, v.focus = entity.Paste(text)
}

// Submit verifies the typed code.
func (v *Verifier) Submit(ctx context.Context) error {
	v.mu.Lock()
	if v.submitting {
		v.mu.Unlock()
		return entity.ErrBusy
	}
	if v.inactiveLocked() {
		v.mu.Unlock()
		return entity.ErrClosed
	}

	v.errMsg = ""
	if !v.cells.Complete() {
		v.errMsg = msgIncompleteCode
		v.mu.Unlock()
		return entity.ErrIncompleteCode
	}

	v.submitting = true
	v.state = entity.StateSubmitting
	identifier, code := v.identifier, v.cells.Code()
	v.mu.Unlock()

	_, err := v.uc.VerifyCode(ctx, identifier, code)
	v.uc.submitCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed.Load() {
		return entity.ErrClosed
	}

	v.submitting = false

	if err != nil {
		v.state = entity.StateAwaitingInput
		v.errMsg = goerror.Message(err)
		return err
	}

	v.state = entity.StateVerified
	v.success = msgVerified
	if v.ticker != nil {
		v.ticker.Stop()
	}
	v.redirect = v.uc.clock.AfterFunc(v.uc.redirectDelay(), func() {
		if v.closed.Load() {
			return
		}
		v.uc.navigator.Navigate(entity.RouteAdmin, entity.HandOff{})
	})

	return nil
}

// Resend asks for a new code once the cooldown has run out.
func (v *Verifier) Resend(ctx context.Context) error {
	v.mu.Lock()
	if v.inactiveLocked() {
		v.mu.Unlock()
		return entity.ErrClosed
	}
	if v.cooldown > 0 {
		v.mu.Unlock()
		return entity.ErrResendThrottled
	}
	if v.resending {
		v.mu.Unlock()
		return entity.ErrBusy
	}

	v.errMsg = ""
	v.resending = true
	identifier := v.identifier
	v.mu.Unlock()

	d, err := v.uc.ResendCode(ctx, identifier)
	v.uc.resendCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))

	v.mu.Lock()
	defer v.mu.Unlock()

	v.resending = false

	if v.closed.Load() {
		return entity.ErrClosed
	}
	// A submit may have verified the code while the resend was outstanding.
	if v.state.Terminal() {
		slog.DebugContext(ctx, "resend response dropped", "state", v.state.String())
		return entity.ErrClosed
	}

	if err != nil {
		v.errMsg = goerror.Message(err)
		return err
	}

	v.cooldown = v.uc.cooldownSeconds()
	v.cells = entity.Cells{}
	v.focus = 0
	v.delivery = d
	v.success = msgResent

	if v.banner != nil {
		v.banner.Stop()
	}
	v.banner = v.uc.clock.AfterFunc(v.uc.bannerTTL(), func() {
		v.mu.Lock()
		defer v.mu.Unlock()

		if !v.closed.Load() && v.success == msgResent {
			v.success = ""
		}
	})

	return nil
}

// Tick is the once-per-second cooldown step.
func (v *Verifier) Tick() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cooldown > 0 {
		v.cooldown--
	}
}

// Close tears the screen down: timers stop and late responses are dropped.
func (v *Verifier) Close() {
	if !v.closed.CompareAndSwap(false, true) {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	for _, t := range []clock.Timer{v.ticker, v.redirect, v.banner} {
		if t != nil {
			t.Stop()
		}
	}
	v.state = entity.StateClosed
}

// View returns a render snapshot.
func (v *Verifier) View() entity.View {
	v.mu.Lock()
	defer v.mu.Unlock()

	return entity.View{
		Identifier:  v.identifier,
		Cells:       v.cells,
		Focus:       v.focus,
		Cooldown:    v.cooldown,
		CanResend:   v.cooldown == 0 && !v.resending && !v.state.Terminal(),
		Mode:        v.delivery.Mode(),
		DisplayCode: v.delivery.Code(),
		Error:       v.errMsg,
		Success:     v.success,
		State:       v.state,
		Submitting:  v.submitting,
		Resending:   v.resending,
	}
}
