// Package events publishes domain events after successful ledger writes.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	CategoryCreated    Type = "category.created"
	CategoryUpdated    Type = "category.updated"
	CategoryDeleted    Type = "category.deleted"
	CategoryPurged     Type = "category.purged"
	TransactionCreated Type = "transaction.created"
	TransactionUpdated Type = "transaction.updated"
	TransactionDeleted Type = "transaction.deleted"
)

// Event carries ids only; consumers read current state from the API.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OwnerID    int64     `json:"owner_id"`
	EntityID   int64     `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(t Type, owner, entity int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OwnerID:    owner,
		EntityID:   entity,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func FromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return e, nil
}
