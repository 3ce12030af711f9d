package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/terra-clan/techdesk/internal/events"
	"github.com/terra-clan/techdesk/internal/models"
)

// ListClients returns every client
func (m *Manager) ListClients(ctx context.Context) ([]*models.Client, error) {
	clients, err := m.repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// GetClient returns a client by id
func (m *Manager) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	c, err := m.repo.GetClient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	return c, nil
}

// CreateClient registers a new client. DNI and email must be unused.
func (m *Manager) CreateClient(ctx context.Context, c *models.Client) (*models.Client, error) {
	normalizeClient(c)
	if c.Status == "" {
		c.Status = models.ClientActive
	}
	if err := m.check(c); err != nil {
		return nil, err
	}

	if err := m.ensureClientUnique(ctx, c); err != nil {
		return nil, err
	}

	c.ID = 0
	if c.RegisteredAt.IsZero() {
		c.RegisteredAt = m.now()
	}

	if err := m.repo.CreateClient(ctx, c); err != nil {
		return nil, storeError(err, "create client")
	}

	m.publish(ctx, events.EntityClient, events.ActionCreated, c.ID)
	return c, nil
}

// UpdateClient replaces a client's fields. The registration date is kept.
func (m *Manager) UpdateClient(ctx context.Context, id int64, c *models.Client) (*models.Client, error) {
	existing, err := m.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	normalizeClient(c)
	c.ID = id
	c.RegisteredAt = existing.RegisteredAt
	if c.Status == "" {
		c.Status = existing.Status
	}
	if err := m.check(c); err != nil {
		return nil, err
	}

	if err := m.ensureClientUnique(ctx, c); err != nil {
		return nil, err
	}

	if err := m.repo.UpdateClient(ctx, c); err != nil {
		return nil, storeError(err, "update client")
	}

	m.publish(ctx, events.EntityClient, events.ActionUpdated, c.ID)
	return c, nil
}

// DeleteClient removes a client. Its orders stay, without a client.
func (m *Manager) DeleteClient(ctx context.Context, id int64) error {
	if err := m.repo.DeleteClient(ctx, id); err != nil {
		return storeError(err, fmt.Sprintf("delete client %d", id))
	}

	m.publish(ctx, events.EntityClient, events.ActionDeleted, id)
	return nil
}

func (m *Manager) ensureClientUnique(ctx context.Context, c *models.Client) error {
	other, err := m.repo.GetClientByDNI(ctx, c.DNI)
	if err != nil {
		return fmt.Errorf("failed to look up client by dni: %w", err)
	}
	if other != nil && other.ID != c.ID {
		return fmt.Errorf("client with dni %s: %w", c.DNI, ErrConflict)
	}

	other, err = m.repo.GetClientByEmail(ctx, c.Email)
	if err != nil {
		return fmt.Errorf("failed to look up client by email: %w", err)
	}
	if other != nil && other.ID != c.ID {
		return fmt.Errorf("client with email %s: %w", c.Email, ErrConflict)
	}

	return nil
}

func normalizeClient(c *models.Client) {
	c.Name = strings.TrimSpace(c.Name)
	c.DNI = strings.TrimSpace(c.DNI)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
}
