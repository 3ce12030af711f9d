package models

import (
	"time"
)

// OrderStatus represents the lifecycle state of a service order
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists the canonical statuses in display order
var OrderStatuses = []OrderStatus{OrderPending, OrderInProgress, OrderCompleted, OrderCancelled}

// Valid reports whether s is one of the canonical statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further work happens on the order
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// Order represents a service request placed by a client.
// CreatedAt is set once on creation and never updated.
type Order struct {
	ID          int64       `json:"id"`
	OrderNumber string      `json:"order_number" validate:"required,max=50"`
	ClientID    *int64      `json:"client_id,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	Status      OrderStatus `json:"status" validate:"oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	CreatedAt   time.Time   `json:"created_at"`
}

// OrderFilters narrows order listings
type OrderFilters struct {
	Status   OrderStatus
	ClientID *int64
}
