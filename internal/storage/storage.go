// Package storage provides the durable key/value stores that back the
// portal session across restarts.
package storage

import "context"

// KV is a durable string key/value store.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
