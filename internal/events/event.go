package events

import (
	"context"
	"time"
)

// Lifecycle actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entity names as they appear in event types and topics.
const (
	EntityUser    = "user"
	EntityZone    = "zone"
	EntityDevice  = "device"
	EntitySensor  = "sensor"
	EntityReading = "reading"
)

// Event describes one committed mutation.
type Event struct {
	// Type is "{entity}.{action}", e.g. "reading.created".
	Type     string    `json:"type"`
	Entity   string    `json:"entity"`
	Action   string    `json:"action"`
	EntityID string    `json:"id"`
	Time     time.Time `json:"timestamp"`

	// Payload is the entity view after the mutation, or the delete summary.
	Payload any `json:"data,omitempty"`

	// Sample is set on reading.created so time-series sinks need not
	// unpack Payload.
	Sample *Sample `json:"-"`
}

// Sample is a single sensor measurement.
type Sample struct {
	SensorID   string
	SensorType string
	Unit       string
	Value      float64
	Time       time.Time
}

// New builds an Event stamped with the current time.
func New(entity, action, id string, payload any) Event {
	return Event{
		Type:     entity + "." + action,
		Entity:   entity,
		Action:   action,
		EntityID: id,
		Time:     time.Now().UTC(),
		Payload:  payload,
	}
}

// Publisher is what services depend on.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) {}
