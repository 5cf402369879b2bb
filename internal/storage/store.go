// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
)

// Keys under which the POS persists its state. Values are JSON documents.
const (
	KeyProducts     = "products"
	KeyTransactions = "transactions"
	KeySettings     = "settings"
	KeyTrialInfo    = "trialInfo"
)

// ErrNotFound is returned by Get when the key has never been written.
// Components treat an absent key as "use the documented default".
var ErrNotFound = errors.New("key not found")

// Store is the persistent key/value store behind the POS. There are no
// transactions and no schema; every value is an opaque document written
// through synchronously after each mutating operation.
//
// This abstraction allows swapping storage backends (SQLite, flat files,
// etc.) without changing the service layer.
type Store interface {
	// Get retrieves the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Reset removes every key. Used only by the gated system reset.
	Reset(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
