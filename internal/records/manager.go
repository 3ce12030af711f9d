package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/terra-clan/techdesk/internal/events"
	"github.com/terra-clan/techdesk/internal/storage"
)

// Common errors
var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("record already exists")
	ErrValidation = errors.New("validation failed")
)

// ValidationError lists the offending fields, keyed by their JSON name
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap makes errors.Is(err, ErrValidation) hold
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Manager owns CRUD for shop records. Every successful mutation is
// published on the event bus.
type Manager struct {
	repo     storage.Repository
	bus      events.Publisher
	validate *validator.Validate
	now      func() time.Time
}

// NewManager creates a record manager. A nil bus disables events.
func NewManager(repo storage.Repository, bus events.Publisher) *Manager {
	if bus == nil {
		bus = events.NopBus{}
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Manager{
		repo:     repo,
		bus:      bus,
		validate: v,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *Manager) check(v interface{}) error {
	err := m.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}

	ve := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		ve.Fields[fe.Field()] = formatFieldError(fe)
	}
	return ve
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// storeError maps repository sentinels onto the manager's
func storeError(err error, op string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrDuplicate):
		return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func (m *Manager) publish(ctx context.Context, entity, action string, id int64) {
	e := events.New(entity, action, id)
	if err := m.bus.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish event",
			"kind", e.Kind,
			"entity_id", id,
			"error", err,
		)
	}
}
