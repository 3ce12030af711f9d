package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/terra-clan/techdesk/internal/events"
	"github.com/terra-clan/techdesk/internal/models"
)

// ListOrders returns orders matching filters, oldest first
func (m *Manager) ListOrders(ctx context.Context, filters models.OrderFilters) ([]*models.Order, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, invalid("status", fmt.Sprintf("unknown order status %q", filters.Status))
	}

	orders, err := m.repo.ListOrders(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListOrdersByStatus returns every order in the given status
func (m *Manager) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]*models.Order, error) {
	return m.ListOrders(ctx, models.OrderFilters{Status: status})
}

// ListOrdersByClient returns every order placed by a client
func (m *Manager) ListOrdersByClient(ctx context.Context, clientID int64) ([]*models.Order, error) {
	return m.ListOrders(ctx, models.OrderFilters{ClientID: &clientID})
}

// GetOrder returns an order by id
func (m *Manager) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	o, err := m.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if o == nil {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return o, nil
}

// CreateOrder opens a new order. An empty order number is generated.
func (m *Manager) CreateOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	o.OrderNumber = strings.TrimSpace(o.OrderNumber)
	if o.OrderNumber == "" {
		o.OrderNumber = NewOrderNumber()
	}
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	if err := m.check(o); err != nil {
		return nil, err
	}
	if err := m.ensureClientExists(ctx, o.ClientID); err != nil {
		return nil, err
	}

	existing, err := m.repo.GetOrderByNumber(ctx, o.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order number: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("order %s: %w", o.OrderNumber, ErrConflict)
	}

	o.ID = 0
	if o.CreatedAt.IsZero() {
		o.CreatedAt = m.now()
	}

	if err := m.repo.CreateOrder(ctx, o); err != nil {
		return nil, storeError(err, "create order")
	}

	m.publish(ctx, events.EntityOrder, events.ActionCreated, o.ID)
	return o, nil
}

// UpdateOrder replaces an order's fields. The creation time never changes.
func (m *Manager) UpdateOrder(ctx context.Context, id int64, o *models.Order) (*models.Order, error) {
	existing, err := m.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	o.ID = id
	o.CreatedAt = existing.CreatedAt
	o.OrderNumber = strings.TrimSpace(o.OrderNumber)
	if o.OrderNumber == "" {
		o.OrderNumber = existing.OrderNumber
	}
	if o.Status == "" {
		o.Status = existing.Status
	}
	if err := m.check(o); err != nil {
		return nil, err
	}
	if err := m.ensureClientExists(ctx, o.ClientID); err != nil {
		return nil, err
	}

	if o.OrderNumber != existing.OrderNumber {
		other, err := m.repo.GetOrderByNumber(ctx, o.OrderNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to look up order number: %w", err)
		}
		if other != nil {
			return nil, fmt.Errorf("order %s: %w", o.OrderNumber, ErrConflict)
		}
	}

	if err := m.repo.UpdateOrder(ctx, o); err != nil {
		return nil, storeError(err, "update order")
	}

	m.publish(ctx, events.EntityOrder, events.ActionUpdated, o.ID)
	return o, nil
}

// DeleteOrder removes an order
func (m *Manager) DeleteOrder(ctx context.Context, id int64) error {
	if err := m.repo.DeleteOrder(ctx, id); err != nil {
		return storeError(err, fmt.Sprintf("delete order %d", id))
	}

	m.publish(ctx, events.EntityOrder, events.ActionDeleted, id)
	return nil
}

func (m *Manager) ensureClientExists(ctx context.Context, clientID *int64) error {
	if clientID == nil {
		return nil
	}

	c, err := m.repo.GetClient(ctx, *clientID)
	if err != nil {
		return fmt.Errorf("failed to look up client: %w", err)
	}
	if c == nil {
		return invalid("client_id", fmt.Sprintf("client %d does not exist", *clientID))
	}
	return nil
}

// NewOrderNumber returns an order number of the form ORD-1A2B3C4D
func NewOrderNumber() string {
	id := uuid.New()
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
