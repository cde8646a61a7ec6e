package entity

// View is a render snapshot of the verification screen.
type View struct {
	Identifier  string
	Cells       Cells
	Focus       int
	Cooldown    int
	CanResend   bool
	Mode        Mode
	DisplayCode string
	Error       string
	Success     string
	State       State
	Submitting  bool
	Resending   bool
}
