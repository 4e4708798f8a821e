// Package credstore persists session fields as individually keyed, encrypted
// string values that survive process restarts.
package credstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("credential not found")
	// ErrCorrupt is returned by Get when a stored value cannot be decrypted.
	ErrCorrupt = errors.New("credential corrupt")
)

// Store is an opaque key-value capability. Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
