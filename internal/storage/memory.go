package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/terra-clan/techdesk/internal/models"
)

// MemoryRepository implements Repository in process memory.
// Records are copied on the way in and out so callers never share state.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64

	clients    map[int64]models.Client
	orders     map[int64]models.Order
	services   map[int64]models.Service
	inventory  map[int64]models.InventoryItem
	apiClients map[string]models.ApiClient
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		clients:    make(map[int64]models.Client),
		orders:     make(map[int64]models.Order),
		services:   make(map[int64]models.Service),
		inventory:  make(map[int64]models.InventoryItem),
		apiClients: make(map[string]models.ApiClient),
	}
}

func (r *MemoryRepository) id() int64 {
	r.nextID++
	return r.nextID
}

// Ping always succeeds
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op
func (r *MemoryRepository) Close() error {
	return nil
}

// --- Clients ---

func (r *MemoryRepository) CreateClient(ctx context.Context, c *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkClientUnique(c); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	c.ID = r.id()
	r.clients[c.ID] = *c
	return nil
}

func (r *MemoryRepository) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryRepository) GetClientByDNI(ctx context.Context, dni string) (*models.Client, error) {
	return r.findClient(func(c models.Client) bool { return c.DNI == dni }), nil
}

func (r *MemoryRepository) GetClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	return r.findClient(func(c models.Client) bool { return c.Email == email }), nil
}

func (r *MemoryRepository) findClient(match func(models.Client) bool) *models.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		if match(c) {
			return &c
		}
	}
	return nil
}

func (r *MemoryRepository) UpdateClient(ctx context.Context, c *models.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.clients[c.ID]
	if !ok {
		return fmt.Errorf("client %d: %w", c.ID, ErrNotFound)
	}

	if err := r.checkClientUnique(c); err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	c.RegisteredAt = existing.RegisteredAt
	r.clients[c.ID] = *c
	return nil
}

func (r *MemoryRepository) DeleteClient(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[id]; !ok {
		return fmt.Errorf("client %d: %w", id, ErrNotFound)
	}

	// Mirrors ON DELETE SET NULL
	for oid, o := range r.orders {
		if o.ClientID != nil && *o.ClientID == id {
			o.ClientID = nil
			r.orders[oid] = o
		}
	}

	delete(r.clients, id)
	return nil
}

func (r *MemoryRepository) ListClients(ctx context.Context) ([]*models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Client, 0, len(r.clients))
	for _, c := range r.clients {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) checkClientUnique(c *models.Client) error {
	for _, other := range r.clients {
		if other.ID == c.ID {
			continue
		}
		if other.DNI == c.DNI {
			return fmt.Errorf("%w: clients_dni_key", ErrDuplicate)
		}
		if other.Email == c.Email {
			return fmt.Errorf("%w: clients_email_key", ErrDuplicate)
		}
	}
	return nil
}

// --- Orders ---

func (r *MemoryRepository) CreateOrder(ctx context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkOrderUnique(o); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	o.ID = r.id()
	r.orders[o.ID] = copyOrder(*o)
	return nil
}

func (r *MemoryRepository) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	o = copyOrder(o)
	return &o, nil
}

func (r *MemoryRepository) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.OrderNumber == number {
			o = copyOrder(o)
			return &o, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) UpdateOrder(ctx context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.orders[o.ID]
	if !ok {
		return fmt.Errorf("order %d: %w", o.ID, ErrNotFound)
	}

	if err := r.checkOrderUnique(o); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	o.CreatedAt = existing.CreatedAt
	r.orders[o.ID] = copyOrder(*o)
	return nil
}

func (r *MemoryRepository) DeleteOrder(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	delete(r.orders, id)
	return nil
}

func (r *MemoryRepository) ListOrders(ctx context.Context, filters models.OrderFilters) ([]*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}
		if filters.ClientID != nil && (o.ClientID == nil || *o.ClientID != *filters.ClientID) {
			continue
		}
		o = copyOrder(o)
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) checkOrderUnique(o *models.Order) error {
	for _, other := range r.orders {
		if other.ID != o.ID && other.OrderNumber == o.OrderNumber {
			return fmt.Errorf("%w: orders_order_number_key", ErrDuplicate)
		}
	}
	return nil
}

func copyOrder(o models.Order) models.Order {
	if o.ClientID != nil {
		id := *o.ClientID
		o.ClientID = &id
	}
	return o
}

// --- Services ---

func (r *MemoryRepository) CreateService(ctx context.Context, s *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = r.id()
	r.services[s.ID] = *s
	return nil
}

func (r *MemoryRepository) GetService(ctx context.Context, id int64) (*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.services[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *MemoryRepository) UpdateService(ctx context.Context, s *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[s.ID]; !ok {
		return fmt.Errorf("service %d: %w", s.ID, ErrNotFound)
	}
	r.services[s.ID] = *s
	return nil
}

func (r *MemoryRepository) DeleteService(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[id]; !ok {
		return fmt.Errorf("service %d: %w", id, ErrNotFound)
	}
	delete(r.services, id)
	return nil
}

func (r *MemoryRepository) ListServices(ctx context.Context) ([]*models.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Service, 0, len(r.services))
	for _, s := range r.services {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// --- Inventory ---

func (r *MemoryRepository) CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.id()
	r.inventory[item.ID] = *item
	return nil
}

func (r *MemoryRepository) GetInventoryItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.inventory[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *MemoryRepository) UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.inventory[item.ID]; !ok {
		return fmt.Errorf("inventory item %d: %w", item.ID, ErrNotFound)
	}
	r.inventory[item.ID] = *item
	return nil
}

func (r *MemoryRepository) DeleteInventoryItem(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.inventory[id]; !ok {
		return fmt.Errorf("inventory item %d: %w", id, ErrNotFound)
	}
	delete(r.inventory, id)
	return nil
}

func (r *MemoryRepository) ListInventory(ctx context.Context) ([]*models.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.InventoryItem, 0, len(r.inventory))
	for _, item := range r.inventory {
		item := item
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- API Clients ---

func (r *MemoryRepository) CreateApiClient(ctx context.Context, c *models.ApiClient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.apiClients[c.ApiKey]; ok {
		return fmt.Errorf("failed to create api client: %w: api_clients_api_key_key", ErrDuplicate)
	}

	c.ID = int(r.id())
	c.CreatedAt = time.Now().UTC()
	r.apiClients[c.ApiKey] = *c
	return nil
}

func (r *MemoryRepository) GetClientByApiKey(ctx context.Context, apiKey string) (*models.ApiClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.apiClients[apiKey]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *MemoryRepository) UpdateClientLastUsed(ctx context.Context, apiKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.apiClients[apiKey]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	c.LastUsedAt = &now
	r.apiClients[apiKey] = c
	return nil
}
