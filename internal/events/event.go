package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entities that emit change events
const (
	EntityClient    = "client"
	EntityOrder     = "order"
	EntityService   = "service"
	EntityInventory = "inventory"
	EntityStats     = "stats"
)

// Actions applied to an entity
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionDigest  = "digest"
)

// Event describes a change to shop data
type Event struct {
	ID       string          `json:"id"`
	Kind     string          `json:"kind"` // "<entity>.<action>", e.g. "order.updated"
	Entity   string          `json:"entity"`
	EntityID int64           `json:"entity_id,omitempty"`
	At       time.Time       `json:"at"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// New creates an event with a fresh id
func New(entity, action string, entityID int64) Event {
	return Event{
		ID:       uuid.NewString(),
		Kind:     entity + "." + action,
		Entity:   entity,
		EntityID: entityID,
		At:       time.Now().UTC(),
	}
}

// WithData attaches a JSON payload to the event
func (e Event) WithData(v interface{}) (Event, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return e, fmt.Errorf("failed to encode event data: %w", err)
	}
	e.Data = data
	return e, nil
}

// Publisher sends events to subscribers
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber delivers events until cancel is called or ctx is done
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan Event, func(), error)
}

// Bus is both a Publisher and a Subscriber
type Bus interface {
	Publisher
	Subscriber
	Close() error
}

func decode(payload []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if e.Kind == "" {
		return Event{}, fmt.Errorf("failed to decode event: missing kind")
	}
	return e, nil
}
