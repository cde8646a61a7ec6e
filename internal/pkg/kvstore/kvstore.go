// Package kvstore is the client-side key/value storage that holds the
// persisted session token between runs.
package kvstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kvstore: key not found")

// KV defines string key/value operations.
type KV interface {
	io.Closer

	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key without expiry.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
}
