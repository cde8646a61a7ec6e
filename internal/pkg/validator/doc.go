// Package validator validates form input structs before they reach the auth
// backend.
//
// Callers depend on the Validator interface. The go-playground/validator v10
// implementation registers English messages plus the MovieBuzz-specific
// "contact" rule (email address or 10-digit mobile number).
package validator

// Validator validates a struct and returns a field-keyed error on failure.
type Validator interface {
	Validate(data any) error
}
