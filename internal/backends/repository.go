package backends

import (
	"context"
)

// Pinger is satisfied by storage.Repository
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreBackend reports the health of the record store itself.
// Closing the store is left to its owner.
type StoreBackend struct {
	BaseBackend
	store Pinger
}

// NewStoreBackend wraps a record store
func NewStoreBackend(driver string, store Pinger) *StoreBackend {
	return &StoreBackend{
		BaseBackend: BaseBackend{backendType: driver},
		store:       store,
	}
}

// HealthCheck pings the store
func (b *StoreBackend) HealthCheck(ctx context.Context) error {
	return b.store.Ping(ctx)
}

// Close is a no-op
func (b *StoreBackend) Close() error {
	return nil
}
