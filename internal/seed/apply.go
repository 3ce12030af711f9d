package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/terra-clan/techdesk/internal/models"
	"github.com/terra-clan/techdesk/internal/records"
	"github.com/terra-clan/techdesk/internal/storage"
)

// Result counts what Apply did
type Result struct {
	Created int
	Skipped int
}

// Apply inserts fixtures through the record manager so the usual
// validation and events apply. Records that already exist are skipped,
// so a file can be applied repeatedly.
func Apply(ctx context.Context, manager *records.Manager, repo storage.Repository, f *Fixtures) (*Result, error) {
	res := &Result{}

	clientIDs, err := applyClients(ctx, manager, repo, f.Clients, res)
	if err != nil {
		return res, err
	}
	if err := applyServices(ctx, manager, f.Services, res); err != nil {
		return res, err
	}
	if err := applyInventory(ctx, manager, f.Inventory, res); err != nil {
		return res, err
	}
	if err := applyOrders(ctx, manager, repo, f.Orders, clientIDs, res); err != nil {
		return res, err
	}
	if err := applyApiClients(ctx, repo, f.ApiClients, res); err != nil {
		return res, err
	}

	slog.Info("seed applied", "created", res.Created, "skipped", res.Skipped)
	return res, nil
}

func applyClients(ctx context.Context, m *records.Manager, repo storage.Repository, fixtures []ClientFixture, res *Result) (map[string]int64, error) {
	ids := make(map[string]int64, len(fixtures))

	for _, cf := range fixtures {
		existing, err := repo.GetClientByDNI(ctx, strings.TrimSpace(cf.DNI))
		if err != nil {
			return nil, fmt.Errorf("failed to look up client %s: %w", cf.DNI, err)
		}
		if existing != nil {
			ids[existing.DNI] = existing.ID
			res.Skipped++
			continue
		}

		c, err := m.CreateClient(ctx, &models.Client{
			Name:   cf.Name,
			DNI:    cf.DNI,
			Email:  cf.Email,
			Phone:  cf.Phone,
			Status: models.ClientStatus(strings.ToUpper(cf.Status)),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed client %s: %w", cf.DNI, err)
		}
		ids[c.DNI] = c.ID
		res.Created++
	}

	return ids, nil
}

func applyServices(ctx context.Context, m *records.Manager, fixtures []ServiceFixture, res *Result) error {
	current, err := m.ListServices(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(current))
	for _, s := range current {
		seen[serviceKey(s.Group, s.Name)] = true
	}

	for _, sf := range fixtures {
		key := serviceKey(sf.Group, sf.Name)
		if seen[key] {
			res.Skipped++
			continue
		}

		_, err := m.CreateService(ctx, &models.Service{
			Group:       sf.Group,
			Name:        sf.Name,
			Description: sf.Description,
			Price:       sf.Price,
			Status:      models.ServiceStatus(strings.ToUpper(sf.Status)),
		})
		if err != nil {
			return fmt.Errorf("failed to seed service %s: %w", sf.Name, err)
		}
		seen[key] = true
		res.Created++
	}
	return nil
}

func serviceKey(group, name string) string {
	return strings.ToLower(strings.TrimSpace(group)) + "/" + strings.ToLower(strings.TrimSpace(name))
}

func applyInventory(ctx context.Context, m *records.Manager, fixtures []InventoryFixture, res *Result) error {
	current, err := m.ListInventory(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(current))
	for _, item := range current {
		seen[strings.ToLower(item.Component)] = true
	}

	for _, inf := range fixtures {
		key := strings.ToLower(strings.TrimSpace(inf.Component))
		if seen[key] {
			res.Skipped++
			continue
		}

		_, err := m.CreateInventoryItem(ctx, &models.InventoryItem{
			Component: inf.Component,
			Quantity:  inf.Quantity,
			Condition: models.ItemCondition(strings.ToUpper(inf.Condition)),
		})
		if err != nil {
			return fmt.Errorf("failed to seed inventory item %s: %w", inf.Component, err)
		}
		seen[key] = true
		res.Created++
	}
	return nil
}

func applyOrders(ctx context.Context, m *records.Manager, repo storage.Repository, fixtures []OrderFixture, clientIDs map[string]int64, res *Result) error {
	for _, of := range fixtures {
		if of.Number != "" {
			existing, err := repo.GetOrderByNumber(ctx, of.Number)
			if err != nil {
				return fmt.Errorf("failed to look up order %s: %w", of.Number, err)
			}
			if existing != nil {
				res.Skipped++
				continue
			}
		}

		o := &models.Order{
			OrderNumber: of.Number,
			Summary:     of.Summary,
			Status:      models.OrderStatus(strings.ToUpper(of.Status)),
		}

		if of.Client != "" {
			id, err := resolveClient(ctx, repo, clientIDs, of.Client)
			if err != nil {
				return err
			}
			o.ClientID = &id
		}

		created, err := parseTime(of.CreatedAt)
		if err != nil {
			return fmt.Errorf("order %s: %w", of.Number, err)
		}
		o.CreatedAt = created

		if _, err := m.CreateOrder(ctx, o); err != nil {
			return fmt.Errorf("failed to seed order %s: %w", of.Number, err)
		}
		res.Created++
	}
	return nil
}

func resolveClient(ctx context.Context, repo storage.Repository, known map[string]int64, dni string) (int64, error) {
	if id, ok := known[dni]; ok {
		return id, nil
	}

	c, err := repo.GetClientByDNI(ctx, dni)
	if err != nil {
		return 0, fmt.Errorf("failed to look up client %s: %w", dni, err)
	}
	if c == nil {
		return 0, fmt.Errorf("order references unknown client %s: %w", dni, records.ErrValidation)
	}
	known[dni] = c.ID
	return c.ID, nil
}

func applyApiClients(ctx context.Context, repo storage.Repository, fixtures []ApiClientFixture, res *Result) error {
	for _, af := range fixtures {
		if af.ApiKey == "" {
			return fmt.Errorf("api client %s: api_key is required: %w", af.Name, records.ErrValidation)
		}

		existing, err := repo.GetClientByApiKey(ctx, af.ApiKey)
		if err != nil {
			return fmt.Errorf("failed to look up api client %s: %w", af.Name, err)
		}
		if existing != nil {
			res.Skipped++
			continue
		}

		c := &models.ApiClient{
			Name:        af.Name,
			ApiKey:      af.ApiKey,
			IsActive:    true,
			Permissions: af.Permissions,
		}
		if err := repo.CreateApiClient(ctx, c); err != nil {
			return fmt.Errorf("failed to seed api client %s: %w", af.Name, err)
		}

		slog.Info("api client seeded", "name", c.Name, "api_key", c.MaskedApiKey())
		res.Created++
	}
	return nil
}
