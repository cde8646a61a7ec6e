package kvstore

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverRedis selects the Redis backend.
	DriverRedis = "redis"
	// DriverMemory selects the in-process backend.
	DriverMemory = "memory"
)

// ErrUnknownDriver indicates an unsupported storage driver.
var ErrUnknownDriver = errors.New("kvstore: unknown driver")

// FactoryOptions groups configuration for storage drivers.
type FactoryOptions struct {
	// Redis configures the Redis backend.
	Redis RedisOptions
}

// NewFromDriver constructs a KV implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverRedis:
		return NewRedis(opts.Redis)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
