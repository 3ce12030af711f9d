package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/terra-clan/techdesk/internal/models"
)

// Reader loads full entity collections. storage.Repository implements it.
type Reader interface {
	ListOrders(ctx context.Context, filters models.OrderFilters) ([]*models.Order, error)
	ListClients(ctx context.Context) ([]*models.Client, error)
	ListServices(ctx context.Context) ([]*models.Service, error)
	ListInventory(ctx context.Context) ([]*models.InventoryItem, error)
}

// Service computes dashboard aggregates on demand. It keeps no state
// between calls and is safe for concurrent use.
type Service struct {
	reader    Reader
	newSource func() Source
}

// Option configures the Service
type Option func(*Service)

// WithSourceFactory overrides how per-request random sources are created
func WithSourceFactory(fn func() Source) Option {
	return func(s *Service) {
		s.newSource = fn
	}
}

// NewService creates a statistics service over reader
func NewService(reader Reader, opts ...Option) *Service {
	s := &Service{
		reader:    reader,
		newSource: NewSource,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary returns the headline totals
func (s *Service) Summary(ctx context.Context) (*models.Summary, error) {
	orders, err := s.orders(ctx)
	if err != nil {
		return nil, err
	}

	clients, err := s.reader.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	services, err := s.reader.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load services: %w", err)
	}

	inventory, err := s.reader.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	summary := Summarize(orders, clients, services, inventory)

	slog.Debug("summary computed",
		"orders", summary.TotalOrders,
		"clients", summary.TotalClients,
		"services", summary.TotalServices,
		"inventory_units", summary.TotalInventory,
	)

	return &summary, nil
}

// OrdersByStatus returns the order count per status
func (s *Service) OrdersByStatus(ctx context.Context) (*models.StatusDistribution, error) {
	orders, err := s.orders(ctx)
	if err != nil {
		return nil, err
	}

	dist, err := StatusBreakdown(orders)
	if err != nil {
		slog.Error("order data integrity violation", "error", err)
		return nil, err
	}

	slog.Debug("status distribution computed",
		"pending", dist.Pending,
		"in_progress", dist.InProgress,
		"completed", dist.Completed,
		"cancelled", dist.Cancelled,
	)

	return &dist, nil
}

// MonthlyRevenue returns the estimated revenue trend
func (s *Service) MonthlyRevenue(ctx context.Context) (*models.MonthlyTrend, error) {
	orders, err := s.orders(ctx)
	if err != nil {
		return nil, err
	}

	trend := MonthlyRevenue(orders, s.newSource())

	var total float64
	for _, v := range trend.Revenue {
		total += v
	}
	slog.Debug("monthly revenue estimated",
		"total", fmt.Sprintf("%.2f", total),
		"average", fmt.Sprintf("%.2f", total/TrendMonths),
	)

	return &trend, nil
}

// ServiceTrend returns repairs vs maintenance per month
func (s *Service) ServiceTrend(ctx context.Context) (*models.ServiceTrend, error) {
	orders, err := s.orders(ctx)
	if err != nil {
		return nil, err
	}

	trend := ServiceTrend(orders)
	return &trend, nil
}

// ClientSegments returns the proportional client segmentation
func (s *Service) ClientSegments(ctx context.Context) (*models.ClientSegmentation, error) {
	clients, err := s.reader.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	seg := ClientSegments(clients)
	return &seg, nil
}

// InventoryByCategory returns stock quantities per display category
func (s *Service) InventoryByCategory(ctx context.Context) (*models.InventoryBreakdown, error) {
	items, err := s.reader.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	breakdown := InventoryByCategory(items)

	slog.Debug("inventory classified",
		"units", breakdown.Total(),
		"laptops", breakdown.Laptops,
		"pcs", breakdown.PCs,
		"peripherals", breakdown.Peripherals,
		"components", breakdown.Components,
		"accessories", breakdown.Accessories,
	)

	return &breakdown, nil
}

// TechnicianPerformance returns the simulated technician scores
func (s *Service) TechnicianPerformance(ctx context.Context) (*models.TechnicianPerformance, error) {
	orders, err := s.orders(ctx)
	if err != nil {
		return nil, err
	}

	perf := TechnicianScores(orders, s.newSource())
	return &perf, nil
}

// Snapshot returns the summary and status distribution together
func (s *Service) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	dist, err := s.OrdersByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Snapshot{Summary: *summary, ByStatus: *dist}, nil
}

func (s *Service) orders(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.reader.ListOrders(ctx, models.OrderFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}
