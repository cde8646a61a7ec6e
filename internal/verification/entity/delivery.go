package entity

// DeliveryKind tags a Delivery.
type DeliveryKind int

const (
	// DeliveryDelivered means the code went out over SMS or email.
	DeliveryDelivered DeliveryKind = iota
	// DeliveryDemoDisplay means no transport is wired and the code is shown on screen.
	DeliveryDemoDisplay
)

// Delivery is how an issued code reached the user.
type Delivery struct {
	kind DeliveryKind
	code string
}

// Delivered is a code sent out of band.
func Delivered() Delivery {
	return Delivery{kind: DeliveryDelivered}
}

// DemoDisplay is a code handed back to the client for display. An empty
// code is not displayable and yields Delivered.
func DemoDisplay(code string) Delivery {
	if code == "" {
		return Delivered()
	}
	return Delivery{kind: DeliveryDemoDisplay, code: code}
}

// Kind returns the variant tag.
func (d Delivery) Kind() DeliveryKind { return d.kind }

// Code returns the displayable code; empty for Delivered.
func (d Delivery) Code() string { return d.code }

// Mode maps the variant to the screen mode.
func (d Delivery) Mode() Mode {
	if d.kind == DeliveryDemoDisplay {
		return ModeDemo
	}
	return ModeReal
}

// HandOff is the navigation state passed into the verification screen.
type HandOff struct {
	Identifier string
	Delivery   Delivery
}
