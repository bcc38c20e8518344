package domain

import "time"

type Booking struct {
	ID            int64
	PassengerID   int64
	FlightNumber  string
	DateOfBooking time.Time
	Price         float64
	PricePaid     bool
}
