package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Fixtures is the content of a seed file
type Fixtures struct {
	Clients    []ClientFixture    `yaml:"clients"`
	Services   []ServiceFixture   `yaml:"services"`
	Inventory  []InventoryFixture `yaml:"inventory"`
	Orders     []OrderFixture     `yaml:"orders"`
	ApiClients []ApiClientFixture `yaml:"api_clients"`
}

// ClientFixture seeds a client. Existing DNIs are skipped.
type ClientFixture struct {
	Name   string `yaml:"name"`
	DNI    string `yaml:"dni"`
	Email  string `yaml:"email"`
	Phone  string `yaml:"phone"`
	Status string `yaml:"status"`
}

// ServiceFixture seeds a catalog entry
type ServiceFixture struct {
	Group       string  `yaml:"group"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Status      string  `yaml:"status"`
}

// InventoryFixture seeds a stocked component
type InventoryFixture struct {
	Component string `yaml:"component"`
	Quantity  int    `yaml:"quantity"`
	Condition string `yaml:"condition"`
}

// OrderFixture seeds an order. Client is the DNI of a seeded or existing client.
type OrderFixture struct {
	Number    string `yaml:"number"`
	Client    string `yaml:"client"`
	Summary   string `yaml:"summary"`
	Status    string `yaml:"status"`
	CreatedAt string `yaml:"created_at"` // RFC 3339 or YYYY-MM-DD
}

// ApiClientFixture seeds an API key
type ApiClientFixture struct {
	Name        string   `yaml:"name"`
	ApiKey      string   `yaml:"api_key"`
	Permissions []string `yaml:"permissions"`
}

// Load reads and parses a fixture file
func Load(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	slog.Info("seed file loaded",
		"path", path,
		"clients", len(f.Clients),
		"services", len(f.Services),
		"inventory", len(f.Inventory),
		"orders", len(f.Orders),
		"api_clients", len(f.ApiClients),
	)
	return f, nil
}

// Parse decodes fixtures. Unknown keys are rejected.
func Parse(data []byte) (*Fixtures, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}

	for i, o := range f.Orders {
		if _, err := parseTime(o.CreatedAt); err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
	}

	return &f, nil
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid created_at %q", s)
	}
	return t, nil
}
