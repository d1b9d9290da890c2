// Package kvstore persists workspace blobs under string keys.
//
// It is the server-side stand-in for browser local storage: one text value per key,
// whole-value overwrite on every Set, and Remove for the sign-out case.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set or was removed.
var ErrNotFound = errors.New("kv: key not found")

// Store is a string-keyed text store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
