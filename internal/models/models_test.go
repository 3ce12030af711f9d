package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApiClientHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		client   *ApiClient
		required string
		want     bool
	}{
		{"nil client", nil, "stats:read", false},
		{"inactive", &ApiClient{IsActive: false, Permissions: []string{"*"}}, "stats:read", false},
		{"exact", &ApiClient{IsActive: true, Permissions: []string{"stats:read"}}, "stats:read", true},
		{"resource wildcard", &ApiClient{IsActive: true, Permissions: []string{"orders:*"}}, "orders:write", true},
		{"wildcard other resource", &ApiClient{IsActive: true, Permissions: []string{"orders:*"}}, "clients:read", false},
		{"global", &ApiClient{IsActive: true, Permissions: []string{"*"}}, "inventory:write", true},
		{"missing", &ApiClient{IsActive: true, Permissions: []string{"stats:read"}}, "stats:write", false},
		{"write implies read", &ApiClient{IsActive: true, Permissions: []string{"clients:write"}}, "clients:read", true},
		{"write on other resource", &ApiClient{IsActive: true, Permissions: []string{"clients:write"}}, "orders:read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.client.HasPermission(tt.required))
		})
	}
}

func TestMaskedApiKey(t *testing.T) {
	assert.Equal(t, "***", (&ApiClient{ApiKey: "short"}).MaskedApiKey())
	assert.Equal(t, "td_live_...", (&ApiClient{ApiKey: "td_live_0123456789"}).MaskedApiKey())
	assert.Equal(t, "abcdefgh...", MaskKey("abcdefghij"))
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("PENDIENTE").Valid())
	assert.False(t, OrderStatus("").Valid())
	assert.True(t, OrderCancelled.IsTerminal())
	assert.False(t, OrderInProgress.IsTerminal())
}

func TestItemConditionValid(t *testing.T) {
	assert.True(t, ConditionPoor.Valid())
	assert.False(t, ItemCondition("BROKEN").Valid())
}
