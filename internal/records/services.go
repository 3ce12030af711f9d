package records

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/terra-clan/techdesk/internal/events"
	"github.com/terra-clan/techdesk/internal/models"
)

// ListServices returns the whole catalog
func (m *Manager) ListServices(ctx context.Context) ([]*models.Service, error) {
	services, err := m.repo.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// ListServicesByGroup returns the catalog entries of one group, compared case-insensitively
func (m *Manager) ListServicesByGroup(ctx context.Context, group string) ([]*models.Service, error) {
	return m.filterServices(ctx, func(s *models.Service) bool {
		return strings.EqualFold(s.Group, strings.TrimSpace(group))
	})
}

// ListActiveServices returns the services currently offered
func (m *Manager) ListActiveServices(ctx context.Context) ([]*models.Service, error) {
	return m.filterServices(ctx, func(s *models.Service) bool {
		return s.Status == models.ServiceActive
	})
}

func (m *Manager) filterServices(ctx context.Context, keep func(*models.Service) bool) ([]*models.Service, error) {
	all, err := m.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Service, 0, len(all))
	for _, s := range all {
		if s != nil && keep(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// GetService returns a catalog entry by id
func (m *Manager) GetService(ctx context.Context, id int64) (*models.Service, error) {
	s, err := m.repo.GetService(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("service %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// CreateService adds a catalog entry
func (m *Manager) CreateService(ctx context.Context, s *models.Service) (*models.Service, error) {
	normalizeService(s)
	if s.Status == "" {
		s.Status = models.ServiceActive
	}
	if err := m.check(s); err != nil {
		return nil, err
	}

	s.ID = 0
	if err := m.repo.CreateService(ctx, s); err != nil {
		return nil, storeError(err, "create service")
	}

	m.publish(ctx, events.EntityService, events.ActionCreated, s.ID)
	return s, nil
}

// UpdateService replaces a catalog entry
func (m *Manager) UpdateService(ctx context.Context, id int64, s *models.Service) (*models.Service, error) {
	existing, err := m.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	normalizeService(s)
	s.ID = id
	if s.Status == "" {
		s.Status = existing.Status
	}
	if err := m.check(s); err != nil {
		return nil, err
	}

	if err := m.repo.UpdateService(ctx, s); err != nil {
		return nil, storeError(err, "update service")
	}

	m.publish(ctx, events.EntityService, events.ActionUpdated, s.ID)
	return s, nil
}

// DeleteService removes a catalog entry
func (m *Manager) DeleteService(ctx context.Context, id int64) error {
	if err := m.repo.DeleteService(ctx, id); err != nil {
		return storeError(err, fmt.Sprintf("delete service %d", id))
	}

	m.publish(ctx, events.EntityService, events.ActionDeleted, id)
	return nil
}

func normalizeService(s *models.Service) {
	s.Group = strings.TrimSpace(s.Group)
	s.Name = strings.TrimSpace(s.Name)
	s.Description = strings.TrimSpace(s.Description)
	// Stored as NUMERIC(10,2)
	s.Price = math.Round(s.Price*100) / 100
}
