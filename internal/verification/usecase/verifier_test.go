package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/goerror"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/session"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
)

func openDemo(t *testing.T, h *harness) *Verifier {
	t.Helper()

	v := h.uc.OpenVerification(context.Background(), entity.HandOff{
		Identifier: "neo@matrix.io",
		Delivery:   entity.DemoDisplay("111111"),
	})
	t.Cleanup(v.Close)
	return v
}

func typeCode(t *testing.T, v *Verifier, code string) {
	t.Helper()
	for i, r := range code {
		if !v.SetDigit(i, string(r)) {
			t.Fatalf("SetDigit(%d, %q) rejected", i, r)
		}
	}
}

func TestVerifier_OpenWithoutIdentifierRedirects(t *testing.T) {
	// Arrange
	h := newHarness(t)

	// Act
	v := h.uc.OpenVerification(context.Background(), entity.HandOff{})

	// Assert
	if got := v.View().State; got != entity.StateNoIdentifier {
		t.Fatalf("state = %v", got)
	}
	if c, _ := h.nav.last(); c.route != entity.RouteRegister {
		t.Fatalf("navigated to %q", c.route)
	}
	if h.clock.Pending() != 0 {
		t.Fatal("timer started without a form")
	}
	if v.SetDigit(0, "1") {
		t.Fatal("input accepted without a form")
	}
}

func TestVerifier_OpenWhenAlreadyVerifiedRedirects(t *testing.T) {
	h := newHarness(t)
	_ = h.store.Set(context.Background(), session.Session{
		Token: "tok", User: session.User{ID: "1", Username: "neo", IsVerified: true},
	})

	v := h.uc.OpenVerification(context.Background(), entity.HandOff{Identifier: "neo@matrix.io"})

	if got := v.View().State; got != entity.StateAlreadyVerified {
		t.Fatalf("state = %v", got)
	}
	if c, _ := h.nav.last(); c.route != entity.RouteAdmin {
		t.Fatalf("navigated to %q", c.route)
	}
	if h.clock.Pending() != 0 {
		t.Fatal("timer started without a form")
	}
}

func TestVerifier_OpenShowsDemoCode(t *testing.T) {
	h := newHarness(t)

	view := openDemo(t, h).View()

	if view.State != entity.StateAwaitingInput || view.Cooldown != 60 || view.CanResend {
		t.Fatalf("view = %+v", view)
	}
	if view.Mode != entity.ModeDemo || view.DisplayCode != "111111" {
		t.Fatalf("mode = %v code = %q", view.Mode, view.DisplayCode)
	}
	if h.nav.len() != 0 {
		t.Fatal("unexpected navigation")
	}
}

func TestVerifier_SubmitIncompleteMakesNoCall(t *testing.T) {
	h := newHarness(t)
	v := openDemo(t, h)

	for n := 0; n < entity.CodeLength; n++ {
		if n > 0 {
			v.SetDigit(n-1, "4")
		}

		err := v.Submit(context.Background())

		if !errors.Is(err, entity.ErrIncompleteCode) {
			t.Fatalf("with %d digits: err = %v", n, err)
		}
		if v.View().Error == "" {
			t.Fatalf("with %d digits: no error shown", n)
		}
	}
	if h.backend.count("VerifyCode") != 0 {
		t.Fatalf("VerifyCode called %d times", h.backend.count("VerifyCode"))
	}
}

func TestVerifier_SubmitSuccessWritesSessionAndRedirectsLater(t *testing.T) {
	// Arrange
	h := newHarness(t)
	want := session.Session{Token: "tok-1", User: session.User{ID: "7", Username: "neo", IsVerified: true}}
	h.backend.verifyCode = func(_ context.Context, contact, code string) (session.Session, error) {
		if contact != "neo@matrix.io" || code != "123456" {
			t.Errorf("VerifyCode(%q, %q)", contact, code)
		}
		return want, nil
	}
	v := openDemo(t, h)
	typeCode(t, v, "123456")

	// Act
	err := v.Submit(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if h.store.Current() != want {
		t.Fatalf("session = %+v", h.store.Current())
	}
	view := v.View()
	if view.State != entity.StateVerified || view.Success != msgVerified {
		t.Fatalf("view = %+v", view)
	}

	h.clock.Advance(1499 * time.Millisecond)
	if h.nav.len() != 0 {
		t.Fatal("redirected before the display delay")
	}
	h.clock.Advance(time.Millisecond)
	if c, ok := h.nav.last(); !ok || c.route != entity.RouteAdmin {
		t.Fatalf("last navigation = %+v", c)
	}
}

func TestVerifier_SubmitRejectedKeepsCells(t *testing.T) {
	h := newHarness(t)
	h.backend.verifyCode = func(context.Context, string, string) (session.Session, error) {
		return session.Session{}, goerror.FromStatus(400, "Invalid or expired OTP")
	}
	v := openDemo(t, h)
	typeCode(t, v, "999999")

	err := v.Submit(context.Background())

	if !errors.Is(err, entity.ErrVerificationRejected) {
		t.Fatalf("err = %v", err)
	}
	view := v.View()
	if view.State != entity.StateAwaitingInput || view.Error != "Invalid or expired OTP" {
		t.Fatalf("view = %+v", view)
	}
	if view.Cells != (entity.Cells{"9", "9", "9", "9", "9", "9"}) {
		t.Fatalf("cells cleared: %v", view.Cells)
	}
	if h.store.IsAuthenticated() {
		t.Fatal("session written on rejection")
	}
}

func TestVerifier_SubmitServerErrorUsesFallback(t *testing.T) {
	h := newHarness(t)
	h.backend.verifyCode = func(context.Context, string, string) (session.Session, error) {
		return session.Session{}, errors.New("connection reset")
	}
	v := openDemo(t, h)
	typeCode(t, v, "123456")

	_ = v.Submit(context.Background())

	if got := v.View().Error; got != "Verification failed. Please try again." {
		t.Fatalf("error = %q", got)
	}
}

func TestVerifier_ResendCooldown(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.backend.issueCode = func(context.Context, string) (entity.Delivery, error) {
		return entity.DemoDisplay("222222"), nil
	}
	v := openDemo(t, h)

	// Act + Assert
	for i := 0; i < 59; i++ {
		h.clock.Advance(time.Second)
		if err := v.Resend(context.Background()); !errors.Is(err, entity.ErrResendThrottled) {
			t.Fatalf("after %ds: err = %v", i+1, err)
		}
	}
	if h.backend.count("IssueCode") != 0 {
		t.Fatal("IssueCode called during cooldown")
	}

	h.clock.Advance(time.Second)
	if view := v.View(); view.Cooldown != 0 || !view.CanResend {
		t.Fatalf("after 60s: view = %+v", view)
	}

	if err := v.Resend(context.Background()); err != nil {
		t.Fatalf("Resend: %v", err)
	}
	if view := v.View(); view.Cooldown != 60 || view.CanResend {
		t.Fatalf("after resend: view = %+v", view)
	}

	h.clock.Advance(10 * time.Second)
	if got := v.View().Cooldown; got != 50 {
		t.Fatalf("cooldown = %d, want 50", got)
	}
}

func TestVerifier_ResendResetsCellsAndAppliesDelivery(t *testing.T) {
	h := newHarness(t)
	v := openDemo(t, h)
	typeCode(t, v, "123")
	h.clock.Advance(60 * time.Second)

	// Real delivery drops the demo code.
	h.backend.issueCode = func(context.Context, string) (entity.Delivery, error) {
		return entity.Delivered(), nil
	}
	if err := v.Resend(context.Background()); err != nil {
		t.Fatalf("Resend: %v", err)
	}
	view := v.View()
	if view.Mode != entity.ModeReal || view.DisplayCode != "" {
		t.Fatalf("mode = %v code = %q", view.Mode, view.DisplayCode)
	}
	if view.Cells != (entity.Cells{}) || view.Focus != 0 {
		t.Fatalf("cells = %v focus = %d", view.Cells, view.Focus)
	}
	if view.Success != msgResent {
		t.Fatalf("success = %q", view.Success)
	}

	h.clock.Advance(3 * time.Second)
	if got := v.View().Success; got != "" {
		t.Fatalf("banner not cleared: %q", got)
	}

	// A code in the response switches back to demo.
	h.clock.Advance(60 * time.Second)
	h.backend.issueCode = func(context.Context, string) (entity.Delivery, error) {
		return entity.DemoDisplay("333333"), nil
	}
	if err := v.Resend(context.Background()); err != nil {
		t.Fatalf("Resend: %v", err)
	}
	if view := v.View(); view.Mode != entity.ModeDemo || view.DisplayCode != "333333" {
		t.Fatalf("mode = %v code = %q", view.Mode, view.DisplayCode)
	}
}

func TestVerifier_ResendFailureKeepsState(t *testing.T) {
	h := newHarness(t)
	h.backend.issueCode = func(context.Context, string) (entity.Delivery, error) {
		return entity.Delivery{}, goerror.FromStatus(429, "Too many requests")
	}
	v := openDemo(t, h)
	h.clock.Advance(60 * time.Second)
	typeCode(t, v, "12")

	err := v.Resend(context.Background())

	if !errors.Is(err, entity.ErrResendFailed) {
		t.Fatalf("err = %v", err)
	}
	view := v.View()
	if view.Error != "Too many requests" || view.Cooldown != 0 || view.Cells[1] != "2" {
		t.Fatalf("view = %+v", view)
	}
	if view.DisplayCode != "111111" {
		t.Fatalf("display code changed: %q", view.DisplayCode)
	}
}

func TestVerifier_SubmitBusyAndCloseDiscards(t *testing.T) {
	// Arrange
	h := newHarness(t)
	started := make(chan struct{})
	release := make(chan struct{})
	h.backend.verifyCode = func(context.Context, string, string) (session.Session, error) {
		close(started)
		<-release
		return session.Session{}, goerror.FromStatus(400, "Invalid or expired OTP")
	}
	v := openDemo(t, h)
	typeCode(t, v, "123456")

	done := make(chan error, 1)
	go func() { done <- v.Submit(context.Background()) }()
	<-started

	// Act
	busyErr := v.Submit(context.Background())
	typed := v.SetDigit(0, "5")
	v.Close()
	close(release)
	firstErr := <-done

	// Assert
	if !errors.Is(busyErr, entity.ErrBusy) {
		t.Errorf("second submit = %v, want ErrBusy", busyErr)
	}
	if typed {
		t.Error("digit accepted while submitting")
	}
	if !errors.Is(firstErr, entity.ErrClosed) {
		t.Errorf("late response = %v, want ErrClosed", firstErr)
	}
	view := v.View()
	if view.State != entity.StateClosed || view.Error != "" {
		t.Errorf("view mutated after close: %+v", view)
	}
	if h.clock.Pending() != 0 {
		t.Errorf("%d timers still pending after close", h.clock.Pending())
	}
}

func TestVerifier_ResendBusyAndCloseDiscards(t *testing.T) {
	h := newHarness(t)
	started := make(chan struct{})
	release := make(chan struct{})
	h.backend.issueCode = func(context.Context, string) (entity.Delivery, error) {
		close(started)
		<-release
		return entity.DemoDisplay("999999"), nil
	}
	v := openDemo(t, h)
	h.clock.Advance(60 * time.Second)

	done := make(chan error, 1)
	go func() { done <- v.Resend(context.Background()) }()
	<-started

	if err := v.Resend(context.Background()); !errors.Is(err, entity.ErrBusy) {
		t.Errorf("second resend = %v, want ErrBusy", err)
	}
	v.Close()
	close(release)

	if err := <-done; !errors.Is(err, entity.ErrClosed) {
		t.Errorf("late response = %v, want ErrClosed", err)
	}
	if view := v.View(); view.DisplayCode != "111111" || view.Cooldown != 0 {
		t.Errorf("late resend applied: %+v", view)
	}
}

func TestVerifier_CloseBeforeRedirect(t *testing.T) {
	h := newHarness(t)
	h.backend.verifyCode = func(context.Context, string, string) (session.Session, error) {
		return session.Session{Token: "tok", User: session.User{ID: "1", IsVerified: true}}, nil
	}
	v := openDemo(t, h)
	typeCode(t, v, "123456")
	if err := v.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	v.Close()
	h.clock.Advance(5 * time.Second)

	if h.nav.len() != 0 {
		t.Fatal("navigated after close")
	}
}

func TestVerifier_PasteAndBackspace(t *testing.T) {
	h := newHarness(t)
	v := openDemo(t, h)

	v.Paste("12a3456xyz")
	view := v.View()
	if view.Cells != (entity.Cells{"1", "2", "3", "4", "5", "6"}) || view.Focus != 5 {
		t.Fatalf("after paste: %+v", view)
	}

	v.SetDigit(5, "")
	v.Backspace(5)
	if got := v.View().Focus; got != 4 {
		t.Fatalf("focus = %d, want 4", got)
	}
	if v.SetDigit(2, "x") {
		t.Fatal("letter accepted")
	}
}

func TestVerifier_ResendAfterVerifiedIsDropped(t *testing.T) {
	// Arrange
	h := newHarness(t)
	started := make(chan struct{})
	release := make(chan struct{})
	h.backend.issueCode = func(context.Context, string) (entity.Delivery, error) {
		close(started)
		<-release
		return entity.DemoDisplay("999999"), nil
	}
	h.backend.verifyCode = func(context.Context, string, string) (session.Session, error) {
		return session.Session{Token: "tok-1", User: session.User{ID: "7", Username: "neo", IsVerified: true}}, nil
	}
	v := openDemo(t, h)
	h.clock.Advance(60 * time.Second)
	typeCode(t, v, "123456")

	done := make(chan error, 1)
	go func() { done <- v.Resend(context.Background()) }()
	<-started

	// Act
	submitErr := v.Submit(context.Background())
	close(release)
	resendErr := <-done

	// Assert
	if submitErr != nil {
		t.Fatalf("Submit: %v", submitErr)
	}
	if !errors.Is(resendErr, entity.ErrClosed) {
		t.Fatalf("late resend = %v, want ErrClosed", resendErr)
	}
	view := v.View()
	if view.State != entity.StateVerified || view.Success != msgVerified {
		t.Fatalf("verified view overwritten: %+v", view)
	}
	if view.Cooldown != 0 || view.Cells.Code() != "123456" || view.DisplayCode != "111111" {
		t.Fatalf("late resend applied: %+v", view)
	}
	if view.Resending {
		t.Fatal("resending flag left set")
	}
	if n := h.clock.Pending(); n != 1 {
		t.Fatalf("pending timers = %d, want only the redirect", n)
	}
}
