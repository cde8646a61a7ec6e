package entity

import "errors"

var (
	// ErrIncompleteCode is returned by submit when any cell is empty.
	ErrIncompleteCode = errors.New("verification: code must have 6 digits")
	// ErrInvalidCodeFormat is returned when a keystroke is not a single digit.
	ErrInvalidCodeFormat = errors.New("verification: code accepts digits only")
	// ErrVerificationRejected wraps a server refusal of the code.
	ErrVerificationRejected = errors.New("verification: code rejected")
	// ErrResendThrottled is returned when resend is asked for inside the cooldown.
	ErrResendThrottled = errors.New("verification: resend not available yet")
	// ErrResendFailed wraps a server failure to issue a new code.
	ErrResendFailed = errors.New("verification: resend failed")
	// ErrBusy is returned when the same request is already in flight.
	ErrBusy = errors.New("verification: request already in progress")
	// ErrMissingIdentifier is returned when the flow is opened without an identifier.
	ErrMissingIdentifier = errors.New("verification: identifier is required")
	// ErrClosed is returned by a verifier after Close.
	ErrClosed = errors.New("verification: screen closed")
)
