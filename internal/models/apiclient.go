package models

import (
	"strings"
	"time"
)

// Permission actions. A permission string is "<resource>:<action>".
const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// ApiClient is a dashboard or integration allowed to call the API
type ApiClient struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	ApiKey      string            `json:"-"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	LastUsedAt  *time.Time        `json:"last_used_at,omitempty"`
	Permissions []string          `json:"permissions"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Permission builds the permission string for an action on a resource.
func Permission(resource, action string) string {
	return resource + ":" + action
}

// HasPermission reports whether an active client may perform required.
// "*" grants everything, "orders:*" grants every orders action and
// "orders:write" also grants "orders:read".
func (c *ApiClient) HasPermission(required string) bool {
	if c == nil || !c.IsActive {
		return false
	}

	resource, action, _ := strings.Cut(required, ":")
	for _, perm := range c.Permissions {
		switch perm {
		case "*", required, Permission(resource, "*"):
			return true
		}
		if action == ActionRead && perm == Permission(resource, ActionWrite) {
			return true
		}
	}

	return false
}

// MaskedApiKey returns the key prefix that is safe to log
func (c *ApiClient) MaskedApiKey() string {
	return MaskKey(c.ApiKey)
}

// MaskKey keeps the first 8 characters of an API key.
func MaskKey(key string) string {
	if len(key) < 8 {
		return "***"
	}
	return key[:8] + "..."
}
