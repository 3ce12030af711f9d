package backends

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Registry manages backends by name
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	timeout  time.Duration
}

// NewRegistry creates a new backend registry
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
		timeout:  3 * time.Second,
	}
}

// Register adds a backend to the registry
func (r *Registry) Register(name string, backend Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[name] = backend
}

// Get retrieves a backend by name
func (r *Registry) Get(name string) Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.backends[name]
}

// List returns all registered backend names, sorted
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HealthCheckAll checks every backend in parallel, each bounded by the registry timeout
func (r *Registry) HealthCheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	snapshot := make(map[string]Backend, len(r.backends))
	for name, b := range r.backends {
		snapshot[name] = b
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		results = make(map[string]error, len(snapshot))
	)

	var g errgroup.Group
	for name, b := range snapshot {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			err := b.HealthCheck(checkCtx)
			if err != nil {
				err = fmt.Errorf("%s: %w", b.Type(), err)
			}

			mu.Lock()
			results[name] = err
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return results
}

// Healthy reports whether every backend passed the last check
func Healthy(results map[string]error) bool {
	for _, err := range results {
		if err != nil {
			return false
		}
	}
	return true
}

// CloseAll closes every backend and logs failures
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, b := range r.backends {
		if err := b.Close(); err != nil {
			slog.Warn("failed to close backend", "backend", name, "error", err)
		}
		delete(r.backends, name)
	}
}
