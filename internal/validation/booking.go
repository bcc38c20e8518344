package validation

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/Domenick1991/airlines/internal/domain"
)

type bookingState struct {
	lk   Lookup
	req  CreateBookingRequest
	plan BookingPlan
}

// CreateBooking validates a seat reservation for a passenger.
func (v *Validator) CreateBooking(ctx context.Context, lk Lookup, req CreateBookingRequest) (BookingPlan, error) {
	s := &bookingState{lk: lk, req: req}
	err := run(ctx, s,
		bookingRequired,
		bookingPassenger,
		bookingFlight,
		bookingSeats,
		bookingUnique,
		bookingPrice,
	)
	if err != nil {
		return BookingPlan{}, err
	}
	return s.plan, nil
}

func bookingRequired(_ context.Context, s *bookingState) error {
	return requireFields(
		field{"passenger_id", s.req.PassengerID},
		field{"flight_number", s.req.FlightNumber},
		field{"price", s.req.Price},
	)
}

func bookingPassenger(ctx context.Context, s *bookingState) error {
	id, err := s.req.PassengerID.Int64()
	if err != nil {
		return newFailure(CodeInvalidPassenger, s.req.PassengerID.String())
	}
	ok, err := s.lk.PassengerExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return newFailure(CodeInvalidPassenger, s.req.PassengerID.String())
	}
	s.plan.PassengerID = id
	return nil
}

func bookingFlight(ctx context.Context, s *bookingState) error {
	flight, err := s.lk.Flight(ctx, s.req.FlightNumber.String())
	if errors.Is(err, domain.ErrNotFound) {
		return newFailure(CodeInvalidFlight, s.req.FlightNumber.String())
	}
	if err != nil {
		return err
	}
	s.plan.Flight = *flight
	return nil
}

func bookingSeats(_ context.Context, s *bookingState) error {
	if s.plan.Flight.RemainingSeats <= 0 {
		return NoSeatsRemaining()
	}
	return nil
}

func bookingUnique(ctx context.Context, s *bookingState) error {
	exists, err := s.lk.BookingExists(ctx, s.plan.PassengerID, s.plan.Flight.Number)
	if err != nil {
		return err
	}
	if exists {
		return AlreadyBooked(s.plan.Flight.Number, s.plan.PassengerID)
	}
	return nil
}

// MaxPrice is the largest price the bookings table can hold, in whole cents.
const MaxPrice = 9_999_999_999.99

func bookingPrice(_ context.Context, s *bookingState) error {
	price, err := strconv.ParseFloat(s.req.Price.String(), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return newFailure(CodeInvalidPrice, s.req.Price.String())
	}
	price = math.Round(price*100) / 100
	if price > MaxPrice {
		return newFailure(CodeInvalidPrice, s.req.Price.String())
	}
	s.plan.Price = price
	return nil
}

// CancelBooking validates that the booking to cancel exists.
func (v *Validator) CancelBooking(ctx context.Context, lk Lookup, req CancelBookingRequest) (CancelPlan, error) {
	id, err := req.BookingID.Int64()
	if err != nil {
		return CancelPlan{}, InvalidBooking(req.BookingID.String())
	}

	booking, err := lk.Booking(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return CancelPlan{}, InvalidBooking(req.BookingID.String())
	}
	if err != nil {
		return CancelPlan{}, err
	}
	return CancelPlan{Booking: *booking}, nil
}
