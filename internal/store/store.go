// Package store abstracts the hierarchical parameter store the rest of
// the tool syncs against. The production implementation is AWS SSM
// Parameter Store; tests swap in a fake client behind the same narrowed
// SDK interface.
package store

import "context"

// Entry is one stored parameter. Secure mirrors the SecureString vs
// String classification so copies can preserve it.
type Entry struct {
	Key    string
	Value  string
	Secure bool
}

// Store is the subset of parameter store behavior the sync engine needs.
// Put always overwrites. List follows the store's pagination until
// exhausted and returns one logical result set.
type Store interface {
	Put(ctx context.Context, entry Entry) error
	Get(ctx context.Context, key string) (Entry, error)
	GetBatch(ctx context.Context, keys []string) ([]Entry, error)
	List(ctx context.Context, prefix string, recursive bool) ([]Entry, error)
}
