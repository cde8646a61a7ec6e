package entity

// Mode governs the verification screen copy.
type Mode int

const (
	// ModeReal means the code was delivered out of band.
	ModeReal Mode = iota
	// ModeDemo means the code is displayed on screen.
	ModeDemo
)

func (m Mode) String() string {
	if m == ModeDemo {
		return "Demo"
	}
	return "Real"
}

// State is the verification screen state.
type State int

const (
	// StateNoIdentifier is terminal: opened without an identifier.
	StateNoIdentifier State = iota
	// StateAwaitingInput accepts digits, submit and resend.
	StateAwaitingInput
	// StateSubmitting is a verify call in flight.
	StateSubmitting
	// StateVerified is terminal: the code was accepted.
	StateVerified
	// StateAlreadyVerified is terminal: the session was already verified on entry.
	StateAlreadyVerified
	// StateClosed is terminal: the screen was torn down.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNoIdentifier:
		return "NoIdentifier"
	case StateAwaitingInput:
		return "AwaitingInput"
	case StateSubmitting:
		return "Submitting"
	case StateVerified:
		return "Verified"
	case StateAlreadyVerified:
		return "AlreadyVerified"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further input is accepted.
func (s State) Terminal() bool {
	switch s {
	case StateAwaitingInput, StateSubmitting:
		return false
	default:
		return true
	}
}

// Route is a client navigation target.
type Route string

const (
	RouteHome     Route = "/"
	RouteRegister Route = "/register"
	RouteLogin    Route = "/login"
	RouteVerify   Route = "/verify-otp"
	RouteAdmin    Route = "/admin"
)

func (r Route) String() string { return string(r) }
