// Package config exposes typed access to the client configuration.
package config

import (
	"io"
	"time"
)

// TimeConfig reads integer keys as durations in a fixed unit.
type TimeConfig interface {
	// GetMillisecond reads key as a number of milliseconds.
	GetMillisecond(key string) time.Duration
	// GetSecond reads key as a number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads key as a number of minutes.
	GetMinute(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
// Missing keys yield the zero value of the requested type.
type Config interface {
	io.Closer
	TimeConfig

	GetBool(key string) bool
	GetInt(key string) int
	GetUint(key string) uint
	GetFloat64(key string) float64
	GetString(key string) string

	// GetArray reads a comma separated value, e.g. "password,token". Blank
	// elements are dropped.
	GetArray(key string) []string
}
