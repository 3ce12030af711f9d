package models

// ServiceStatus represents catalog availability
type ServiceStatus string

const (
	ServiceActive   ServiceStatus = "ACTIVE"
	ServiceInactive ServiceStatus = "INACTIVE"
)

// Valid reports whether s is a known service status
func (s ServiceStatus) Valid() bool {
	return s == ServiceActive || s == ServiceInactive
}

// Service is an entry of the service catalog
type Service struct {
	ID          int64         `json:"id"`
	Group       string        `json:"group" validate:"required,max=50"`
	Name        string        `json:"name" validate:"required,max=100"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price" validate:"gte=0"`
	Status      ServiceStatus `json:"status" validate:"oneof=ACTIVE INACTIVE"`
}
