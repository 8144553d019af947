package clientstore

import "context"

// Storage is a persistent string key-value store, the equivalent of a
// browser's local storage. Implementations must be safe for concurrent use.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

type namespaced struct {
	storage Storage
	prefix  string
}

// Namespace scopes every key of storage under ns. A nil storage stays nil.
func Namespace(storage Storage, ns string) Storage {
	if storage == nil {
		return nil
	}
	return &namespaced{storage: storage, prefix: ns + ":"}
}

func (n *namespaced) GetItem(ctx context.Context, key string) (string, bool, error) {
	return n.storage.GetItem(ctx, n.prefix+key)
}

func (n *namespaced) SetItem(ctx context.Context, key, value string) error {
	return n.storage.SetItem(ctx, n.prefix+key, value)
}

func (n *namespaced) RemoveItem(ctx context.Context, key string) error {
	return n.storage.RemoveItem(ctx, n.prefix+key)
}
