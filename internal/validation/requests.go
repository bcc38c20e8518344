package validation

import (
	"time"

	"github.com/Domenick1991/airlines/internal/domain"
)

const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"

	dateTimeFormatHint = "YYYY-MM-DD HH:MM:SS"
	dateFormatHint     = "YYYY-MM-DD"
)

type AssignFlightRequest struct {
	FlightNumber  Param `json:"flight_number"`
	AirplaneID    Param `json:"airplane_id"`
	DepartureID   Param `json:"departure_id"`
	ArrivalID     Param `json:"arrival_id"`
	DepartureTime Param `json:"departure_time"`
	ArrivalTime   Param `json:"arrival_time"`
}

// FlightPlan is a validated flight assignment, ready to insert.
type FlightPlan struct {
	FlightNumber  string
	AirplaneID    int64
	DepartureID   string
	ArrivalID     string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Capacity      int
}

func (p FlightPlan) Flight() domain.Flight {
	return domain.Flight{
		Number:         p.FlightNumber,
		AirplaneID:     p.AirplaneID,
		DepartureID:    p.DepartureID,
		ArrivalID:      p.ArrivalID,
		DepartureTime:  p.DepartureTime,
		ArrivalTime:    p.ArrivalTime,
		RemainingSeats: p.Capacity,
	}
}

type SearchFlightRequest struct {
	Date        Param `json:"date"`
	DepartureID Param `json:"departure_id"`
	ArrivalID   Param `json:"arrival_id"`
}

type SearchQuery struct {
	Date        time.Time
	DepartureID string
	ArrivalID   string
}

// Window is the half-open departure range [date 00:00, next day 00:00).
func (q SearchQuery) Window() domain.FlightSearch {
	return domain.FlightSearch{
		DepartureID: q.DepartureID,
		ArrivalID:   q.ArrivalID,
		From:        q.Date,
		To:          q.Date.AddDate(0, 0, 1),
	}
}

type CreateBookingRequest struct {
	PassengerID  Param `json:"passenger_id"`
	FlightNumber Param `json:"flight_number"`
	Price        Param `json:"price"`
}

type BookingPlan struct {
	PassengerID int64
	Flight      domain.Flight
	Price       float64
}

type CancelBookingRequest struct {
	BookingID Param `json:"booking_id"`
}

type CancelPlan struct {
	Booking domain.Booking
}
