// Package uid generates identifiers: UUID v7 strings for correlation and
// token IDs, snowflake numbers for user IDs.
package uid

import "github.com/google/uuid"

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates numeric identifiers.
type NumberID interface {
	Generate() int64
}

// UUID generates time-ordered UUID strings.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a v7 UUID, or a random v4 if the v7 clock read fails.
func (*UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}

	return uuid.NewString()
}

// IsUUID reports whether s parses as a UUID of any version.
func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}
