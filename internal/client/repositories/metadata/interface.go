// Package metadata is a small key/value store in the CLI's local database.
// The CLI keeps its session tokens there between invocations.
package metadata

import (
	"context"
)

// Repository reads and writes opaque values by key. Get returns
// common.ErrorNotFound for a key that was never set.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
