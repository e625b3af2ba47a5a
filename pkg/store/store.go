// Package store persists whole record collections in a key-value medium.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by a KV when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is the byte-level medium behind the gateway. Values are replaced
// wholesale; there are no partial updates.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// StorageError reports a failed read or write against the medium. Callers
// surface it instead of dropping the mutation silently.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}
