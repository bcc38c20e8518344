package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airlines/internal/kafka"
	"github.com/Domenick1991/airlines/internal/logger"
)

type Message struct {
	PassengerID int64
	Subject     string
	Body        string
}

// Sender delivers passenger notifications. Delivery is a structured log line
// until a mail relay is configured.
type Sender struct {
	log logger.Logger
}

func NewSender(log logger.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.Event) error {
	msg, ok := Compose(event)
	if !ok {
		return nil
	}
	s.log.Info("send email",
		logger.F("passenger_id", msg.PassengerID),
		logger.F("subject", msg.Subject),
		logger.F("body", msg.Body),
		logger.F("event_id", event.ID),
	)
	return nil
}

// Compose renders the message for a passenger-facing event. Other events
// yield ok=false.
func Compose(event kafka.Event) (Message, bool) {
	switch event.Type {
	case kafka.EventBookingCreated:
		return Message{
			PassengerID: event.PassengerID,
			Subject:     fmt.Sprintf("Booking %d confirmed", event.BookingID),
			Body:        fmt.Sprintf("Your seat on flight %s is booked. Booking id %d.", event.FlightNumber, event.BookingID),
		}, true
	case kafka.EventBookingCancelled:
		return Message{
			PassengerID: event.PassengerID,
			Subject:     fmt.Sprintf("Booking %d cancelled", event.BookingID),
			Body:        fmt.Sprintf("Successfully cancelled booking id %d for flight %s.", event.BookingID, event.FlightNumber),
		}, true
	default:
		return Message{}, false
	}
}
