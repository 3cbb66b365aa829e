package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope wraps a domain event for the notification stream.
type Envelope struct {
	ID         string          `json:"id"`
	EventType  string          `json:"event_type"`
	Data       json.RawMessage `json:"data"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New wraps data in an envelope, marshalling the payload.
func New(eventType string, data any) (Envelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ID:         uuid.New().String(),
		EventType:  eventType,
		Data:       payload,
		OccurredAt: time.Now(),
	}, nil
}
