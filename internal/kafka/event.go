package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type EventType string

const (
	EventFlightAssigned   EventType = "flight_assigned"
	EventBookingCreated   EventType = "booking_created"
	EventBookingCancelled EventType = "booking_cancelled"
)

// Event is the payload written to the booking events and notifications topics.
type Event struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	FlightNumber   string    `json:"flight_number"`
	BookingID      int64     `json:"booking_id,omitempty"`
	PassengerID    int64     `json:"passenger_id,omitempty"`
	RemainingSeats int       `json:"remaining_seats"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func NewEvent(t EventType, flightNumber string) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         t,
		FlightNumber: flightNumber,
		OccurredAt:   time.Now().UTC(),
	}
}

// Key partitions events by flight so a flight's events stay ordered.
func (e Event) Key() string {
	return e.FlightNumber
}

func decodeEvent(msg kafka.Message) (Event, error) {
	var e Event
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		return Event{}, fmt.Errorf("decode event at offset %d: %w", msg.Offset, err)
	}
	if e.Type == "" {
		return Event{}, fmt.Errorf("event at offset %d has no type", msg.Offset)
	}
	return e, nil
}
