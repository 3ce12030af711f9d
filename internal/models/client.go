package models

import (
	"time"
)

// ClientStatus represents whether a client is still active
type ClientStatus string

const (
	ClientActive   ClientStatus = "ACTIVE"
	ClientInactive ClientStatus = "INACTIVE"
)

// Valid reports whether s is a known client status
func (s ClientStatus) Valid() bool {
	return s == ClientActive || s == ClientInactive
}

// Client represents a customer of the shop
type Client struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name" validate:"required,max=100"`
	DNI          string       `json:"dni" validate:"required,max=20"`
	Email        string       `json:"email" validate:"required,email,max=100"`
	Phone        string       `json:"phone,omitempty" validate:"max=20"`
	Status       ClientStatus `json:"status" validate:"oneof=ACTIVE INACTIVE"`
	RegisteredAt time.Time    `json:"registered_at"`
}
