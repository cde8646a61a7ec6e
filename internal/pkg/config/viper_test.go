package config

import (
	"testing"
	"time"
)

func TestNewViperFromBytes_ReadsTypedValues(t *testing.T) {
	// Arrange
	raw := []byte(`
verification:
  cooldown_seconds: 45
  redirect_delay_millis: 1500
demoauth:
  jwt_ttl_minutes: 10
instrument:
  log_mask_fields: "password, token,,otp"
`)

	// Act
	cfg, err := NewViperFromBytes("yaml", raw)

	// Assert
	if err != nil {
		t.Fatalf("NewViperFromBytes: %v", err)
	}
	if got := cfg.GetSecond("verification.cooldown_seconds"); got != 45*time.Second {
		t.Errorf("cooldown = %v", got)
	}
	if got := cfg.GetMillisecond("verification.redirect_delay_millis"); got != 1500*time.Millisecond {
		t.Errorf("redirect delay = %v", got)
	}
	if got := cfg.GetMinute("demoauth.jwt_ttl_minutes"); got != 10*time.Minute {
		t.Errorf("jwt ttl = %v", got)
	}
	mask := cfg.GetArray("instrument.log_mask_fields")
	if len(mask) != 3 || mask[0] != "password" || mask[1] != "token" || mask[2] != "otp" {
		t.Errorf("mask fields = %#v", mask)
	}
}

func TestNewViperFromBytes_Defaults(t *testing.T) {
	// Arrange & Act
	cfg, err := NewViperFromBytes("yaml", []byte("app:\n  name: test\n"))

	// Assert
	if err != nil {
		t.Fatalf("NewViperFromBytes: %v", err)
	}
	if got := cfg.GetString("session.storage_key"); got != "adminToken" {
		t.Errorf("storage key = %q", got)
	}
	if got := cfg.GetSecond("verification.banner_ttl_seconds"); got != 3*time.Second {
		t.Errorf("banner ttl = %v", got)
	}
}

func TestNewViperFromBytes_EnvOverride(t *testing.T) {
	// Arrange
	t.Setenv("MOVIEBUZZ_AUTH_DRIVER", "demo")

	// Act
	cfg, err := NewViperFromBytes("yaml", []byte("auth:\n  driver: http\n"))

	// Assert
	if err != nil {
		t.Fatalf("NewViperFromBytes: %v", err)
	}
	if got := cfg.GetString("auth.driver"); got != "demo" {
		t.Errorf("auth.driver = %q, want demo", got)
	}
}

func TestNewViperFromBytes_RequiresType(t *testing.T) {
	if _, err := NewViperFromBytes(" ", nil); err == nil {
		t.Fatal("expected error for empty config type")
	}
}
