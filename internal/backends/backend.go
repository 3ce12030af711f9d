package backends

import (
	"context"
)

// Backend is an external dependency the server relies on
type Backend interface {
	// Type returns the backend type name
	Type() string

	// HealthCheck checks if the backend is reachable
	HealthCheck(ctx context.Context) error

	// Close releases the backend's connections
	Close() error
}

// BaseBackend provides common functionality for backends
type BaseBackend struct {
	backendType string
}

// Type returns the backend type
func (b *BaseBackend) Type() string {
	return b.backendType
}
