package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/goerror"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/kvstore"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/session"
	"github.com/shandysiswandi/moviebuzz/internal/verification/entity"
)

func TestUsecase_RegisterHandsOffToVerify(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.backend.register = func(_ context.Context, in RegisterRequest) (RegisterResult, error) {
		if in.Username != "neo" || in.Contact != "neo@matrix.io" || in.Password != "secret1" {
			t.Errorf("Register(%+v)", in)
		}
		return RegisterResult{UserID: "1", Delivery: entity.DemoDisplay("123456")}, nil
	}

	// Act
	err := h.uc.Register(context.Background(), RegisterInput{
		Username: " neo ", Contact: "neo@matrix.io", Password: "secret1", ConfirmPassword: "secret1",
	})

	// Assert
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	c, _ := h.nav.last()
	if c.route != entity.RouteVerify || c.handOff.Identifier != "neo@matrix.io" || c.handOff.Delivery.Code() != "123456" {
		t.Fatalf("navigation = %+v", c)
	}
	if h.store.IsAuthenticated() {
		t.Fatal("register wrote the session")
	}
}

func TestUsecase_RegisterValidation(t *testing.T) {
	h := newHarness(t)

	err := h.uc.Register(context.Background(), RegisterInput{
		Username: "neo", Contact: "neo@matrix.io", Password: "secret1", ConfirmPassword: "secret2",
	})

	if goerror.Message(err) != "Passwords do not match" {
		t.Fatalf("err = %v (%q)", err, goerror.Message(err))
	}
	if h.backend.count("Register") != 0 || h.nav.len() != 0 {
		t.Fatal("invalid input reached the backend")
	}
}

func TestUsecase_RegisterFallbackMessage(t *testing.T) {
	h := newHarness(t)
	h.backend.register = func(context.Context, RegisterRequest) (RegisterResult, error) {
		return RegisterResult{}, errors.New("EOF")
	}

	err := h.uc.Register(context.Background(), RegisterInput{
		Username: "neo", Contact: "0812345678", Password: "secret1", ConfirmPassword: "secret1",
	})

	if got := goerror.Message(err); got != "Registration failed. Please try again." {
		t.Fatalf("message = %q", got)
	}
}

func TestUsecase_LoginVerified(t *testing.T) {
	h := newHarness(t)
	want := session.Session{Token: "tok", User: session.User{ID: "1", Username: "neo", IsVerified: true}}
	h.backend.login = func(context.Context, string, string) (LoginResult, error) {
		return LoginResult{Session: want}, nil
	}

	if err := h.uc.Login(context.Background(), LoginInput{Username: "neo", Password: "secret1"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if h.store.Current() != want {
		t.Fatalf("session = %+v", h.store.Current())
	}
	if c, _ := h.nav.last(); c.route != entity.RouteAdmin {
		t.Fatalf("route = %q", c.route)
	}
}

func TestUsecase_LoginNeedsVerification(t *testing.T) {
	h := newHarness(t)
	h.backend.login = func(context.Context, string, string) (LoginResult, error) {
		return LoginResult{NeedsVerification: true, Contact: "neo@matrix.io", Delivery: entity.Delivered()}, nil
	}

	if err := h.uc.Login(context.Background(), LoginInput{Username: "neo", Password: "secret1"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	c, _ := h.nav.last()
	if c.route != entity.RouteVerify || c.handOff.Identifier != "neo@matrix.io" || c.handOff.Delivery.Mode() != entity.ModeReal {
		t.Fatalf("navigation = %+v", c)
	}
	if h.store.IsAuthenticated() {
		t.Fatal("unverified login wrote the session")
	}
}

func TestUsecase_LoginServerMessageVerbatim(t *testing.T) {
	h := newHarness(t)
	h.backend.login = func(context.Context, string, string) (LoginResult, error) {
		return LoginResult{}, goerror.FromStatus(401, "Invalid credentials")
	}

	err := h.uc.Login(context.Background(), LoginInput{Username: "neo", Password: "nope"})

	if goerror.Message(err) != "Invalid credentials" || !goerror.IsCode(err, goerror.CodeUnauthorized) {
		t.Fatalf("err = %v", err)
	}
}

func TestUsecase_SetupAdmin(t *testing.T) {
	h := newHarness(t)
	h.backend.setupStatus = func(context.Context) (bool, error) { return true, nil }
	h.backend.setupAdmin = func(_ context.Context, username, _ string) (session.Session, error) {
		return session.Session{Token: "t", User: session.User{ID: "1", Username: username, IsVerified: true, IsAdmin: true}}, nil
	}

	if !h.uc.SetupRequired(context.Background()) {
		t.Fatal("SetupRequired = false")
	}
	err := h.uc.SetupAdmin(context.Background(), SetupInput{Username: "root", Password: "secret1", ConfirmPassword: "secret1"})

	if err != nil {
		t.Fatalf("SetupAdmin: %v", err)
	}
	if err := h.uc.Authorize(context.Background(), "admin", "manage"); err != nil {
		t.Fatalf("admin gate: %v", err)
	}
}

func TestUsecase_SetupRequiredFailureIsFalse(t *testing.T) {
	h := newHarness(t)
	h.backend.setupStatus = func(context.Context) (bool, error) { return false, errors.New("down") }

	if h.uc.SetupRequired(context.Background()) {
		t.Fatal("SetupRequired = true on failure")
	}
}

func TestUsecase_LogoutAndRestore(t *testing.T) {
	// Arrange
	h := newHarness(t)
	kv := kvstore.NewMemory()
	_ = kv.Set(context.Background(), session.DefaultStorageKey, "opaque")
	h.store = session.New(kv, session.Options{})
	h.uc.session = h.store
	h.backend.verifyToken = func(context.Context, string) (session.User, error) {
		return session.User{ID: "1", Username: "neo", IsVerified: true}, nil
	}

	// Act
	if err := h.uc.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	restored := h.uc.Current()
	if err := h.uc.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	// Assert
	if restored.Token != "opaque" || !restored.User.IsVerified {
		t.Fatalf("restored = %+v", restored)
	}
	if h.store.IsAuthenticated() {
		t.Fatal("still authenticated after logout")
	}
	if _, err := kv.Get(context.Background(), session.DefaultStorageKey); !errors.Is(err, kvstore.ErrNotFound) {
		t.Fatalf("token still stored: %v", err)
	}
	if c, _ := h.nav.last(); c.route != entity.RouteLogin {
		t.Fatalf("route = %q", c.route)
	}
}
