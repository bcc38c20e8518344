package validation

import (
	"context"
	"time"

	"github.com/Domenick1991/airlines/internal/domain"
)

// Lookup is the read view validation runs against. Inside a unit of work it
// is the transaction, so what is checked is what gets written.
type Lookup interface {
	AirportExists(ctx context.Context, code string) (bool, error)
	Airplane(ctx context.Context, id int64) (*domain.Airplane, error)
	// AirplaneFlights lists the airplane's flights overlapping [from, to],
	// ordered by departure time.
	AirplaneFlights(ctx context.Context, airplaneID int64, from, to time.Time) ([]domain.Flight, error)
	PassengerExists(ctx context.Context, id int64) (bool, error)
	Flight(ctx context.Context, number string) (*domain.Flight, error)
	BookingExists(ctx context.Context, passengerID int64, flightNumber string) (bool, error)
	Booking(ctx context.Context, id int64) (*domain.Booking, error)
}

// check returns nil to continue, a *Failure to reject the request, or any
// other error when the store itself failed.
type check[S any] func(ctx context.Context, s *S) error

// run applies checks left to right and stops at the first non-nil result.
func run[S any](ctx context.Context, s *S, checks ...check[S]) error {
	for _, c := range checks {
		if err := c(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

type Validator struct {
	now func() time.Time
	loc *time.Location
}

type Option func(*Validator)

func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// WithLocation sets the timezone request times and dates are read in.
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		v.loc = loc
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Validator) Location() *time.Location {
	return v.loc
}

func (v *Validator) Now() time.Time {
	return v.now()
}

// checkRoute is shared by assignment and search: both airports must exist
// and differ.
func checkRoute(ctx context.Context, lk Lookup, departureID, arrivalID string) error {
	ok, err := lk.AirportExists(ctx, departureID)
	if err != nil {
		return err
	}
	if !ok {
		return newFailure(CodeInvalidDepartureAirport, departureID)
	}

	ok, err = lk.AirportExists(ctx, arrivalID)
	if err != nil {
		return err
	}
	if !ok {
		return newFailure(CodeInvalidArrivalAirport, arrivalID)
	}

	if departureID == arrivalID {
		return newFailure(CodeInvalidAirport)
	}
	return nil
}
