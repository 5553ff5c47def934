package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Event is one domain event on its way to the broker.
type Event struct {
	ID          string
	AggregateID string
	Type        string
	Payload     []byte
	Headers     map[string]string
	CreatedAt   time.Time
}

// New marshals payload and stamps the event with a fresh id.
func New(eventType, aggregateID string, payload any) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, errors.Wrapf(err, "marshal %s", eventType)
	}
	return Event{
		ID:          uuid.NewString(),
		AggregateID: aggregateID,
		Type:        eventType,
		Payload:     b,
		Headers:     map[string]string{},
		CreatedAt:   time.Now().UTC(),
	}, nil
}
