package otp

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// OTP defines the contract for challenge codes.
type OTP interface {
	// NewSecret creates a fresh secret for one challenge.
	NewSecret(accountName string) (string, error)
	// Code returns the code for secret at the given time.
	Code(secret string, at time.Time) (string, error)
	// Validate checks whether code is valid for secret at the given time.
	Validate(code, secret string, at time.Time) bool
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	issuer string
	opts   totp.ValidateOpts
}

// NewTOTP constructs a six-digit TOTP issuer.
//
// A zero period falls back to 30 seconds. Skew is fixed at one period so a
// code typed right at a boundary still passes.
func NewTOTP(issuer string, period time.Duration) *TOTP {
	secs := uint(period / time.Second)
	if secs == 0 {
		secs = 30
	}

	return &TOTP{
		issuer: issuer,
		opts: totp.ValidateOpts{
			Period:    secs,
			Skew:      1,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		},
	}
}

// NewSecret creates a fresh base32 secret for one challenge.
func (o *TOTP) NewSecret(accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      o.issuer,
		AccountName: accountName,
		Period:      o.opts.Period,
		SecretSize:  20,
		Digits:      o.opts.Digits,
		Algorithm:   o.opts.Algorithm,
	})
	if err != nil {
		return "", err
	}

	return key.Secret(), nil
}

// Code returns the six-digit code for secret at the given time.
func (o *TOTP) Code(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, o.opts)
}

// Validate checks whether code is valid for secret at the given time.
func (o *TOTP) Validate(code, secret string, at time.Time) bool {
	ok, err := totp.ValidateCustom(code, secret, at, o.opts)

	return ok && err == nil
}
