package storage

import (
	"context"
	"errors"

	"github.com/terra-clan/techdesk/internal/models"
)

var (
	// ErrNotFound is returned by update and delete when no row matches
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique column would be violated
	ErrDuplicate = errors.New("duplicate record")
)

// Repository defines the interface for shop persistence.
// Get methods return nil, nil when the record does not exist.
type Repository interface {
	// Clients
	CreateClient(ctx context.Context, c *models.Client) error
	GetClient(ctx context.Context, id int64) (*models.Client, error)
	GetClientByDNI(ctx context.Context, dni string) (*models.Client, error)
	GetClientByEmail(ctx context.Context, email string) (*models.Client, error)
	UpdateClient(ctx context.Context, c *models.Client) error
	DeleteClient(ctx context.Context, id int64) error
	ListClients(ctx context.Context) ([]*models.Client, error)

	// Orders
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
	UpdateOrder(ctx context.Context, o *models.Order) error
	DeleteOrder(ctx context.Context, id int64) error
	ListOrders(ctx context.Context, filters models.OrderFilters) ([]*models.Order, error)

	// Service catalog
	CreateService(ctx context.Context, s *models.Service) error
	GetService(ctx context.Context, id int64) (*models.Service, error)
	UpdateService(ctx context.Context, s *models.Service) error
	DeleteService(ctx context.Context, id int64) error
	ListServices(ctx context.Context) ([]*models.Service, error)

	// Inventory
	CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error
	GetInventoryItem(ctx context.Context, id int64) (*models.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id int64) error
	ListInventory(ctx context.Context) ([]*models.InventoryItem, error)

	// API Clients
	CreateApiClient(ctx context.Context, c *models.ApiClient) error
	GetClientByApiKey(ctx context.Context, apiKey string) (*models.ApiClient, error)
	UpdateClientLastUsed(ctx context.Context, apiKey string) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}
