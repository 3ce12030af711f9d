package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/terra-clan/techdesk/internal/events"
	"github.com/terra-clan/techdesk/internal/models"
)

// ListInventory returns every stocked item
func (m *Manager) ListInventory(ctx context.Context) ([]*models.InventoryItem, error) {
	items, err := m.repo.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// GetInventoryItem returns an item by id
func (m *Manager) GetInventoryItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	item, err := m.repo.GetInventoryItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("inventory item %d: %w", id, ErrNotFound)
	}
	return item, nil
}

// CreateInventoryItem stocks a new item. Condition defaults to NEW.
func (m *Manager) CreateInventoryItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	item.Component = strings.TrimSpace(item.Component)
	if item.Condition == "" {
		item.Condition = models.ConditionNew
	}
	if err := m.check(item); err != nil {
		return nil, err
	}

	item.ID = 0
	if err := m.repo.CreateInventoryItem(ctx, item); err != nil {
		return nil, storeError(err, "create inventory item")
	}

	m.publish(ctx, events.EntityInventory, events.ActionCreated, item.ID)
	return item, nil
}

// UpdateInventoryItem replaces an item
func (m *Manager) UpdateInventoryItem(ctx context.Context, id int64, item *models.InventoryItem) (*models.InventoryItem, error) {
	existing, err := m.GetInventoryItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item.ID = id
	item.Component = strings.TrimSpace(item.Component)
	if item.Condition == "" {
		item.Condition = existing.Condition
	}
	if err := m.check(item); err != nil {
		return nil, err
	}

	if err := m.repo.UpdateInventoryItem(ctx, item); err != nil {
		return nil, storeError(err, "update inventory item")
	}

	m.publish(ctx, events.EntityInventory, events.ActionUpdated, item.ID)
	return item, nil
}

// DeleteInventoryItem removes an item
func (m *Manager) DeleteInventoryItem(ctx context.Context, id int64) error {
	if err := m.repo.DeleteInventoryItem(ctx, id); err != nil {
		return storeError(err, fmt.Sprintf("delete inventory item %d", id))
	}

	m.publish(ctx, events.EntityInventory, events.ActionDeleted, id)
	return nil
}
