package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/airlines/internal/domain"
)

// Reader is the read side shared by the store and its transactions.
type Reader interface {
	AirportExists(ctx context.Context, code string) (bool, error)
	Airplane(ctx context.Context, id int64) (*domain.Airplane, error)
	AirplaneFlights(ctx context.Context, airplaneID int64, from, to time.Time) ([]domain.Flight, error)
	PassengerExists(ctx context.Context, id int64) (bool, error)
	Flight(ctx context.Context, number string) (*domain.Flight, error)
	BookingExists(ctx context.Context, passengerID int64, flightNumber string) (bool, error)
	Booking(ctx context.Context, id int64) (*domain.Booking, error)
}

// Tx is one unit of work. Reads of airplanes, flights and bookings lock the
// row until the unit commits or rolls back.
type Tx interface {
	Reader
	// InsertFlight fails with domain.ErrDuplicate when the number is taken.
	InsertFlight(ctx context.Context, flight domain.Flight) error
	// InsertBooking sets ID and DateOfBooking. It fails with
	// domain.ErrDuplicate when the passenger already holds the flight.
	InsertBooking(ctx context.Context, booking *domain.Booking) error
	// TakeSeat decrements remaining seats, failing with domain.ErrNoSeats at zero.
	TakeSeat(ctx context.Context, flightNumber string) (int, error)
	// ReleaseSeat increments remaining seats, never above aircraft capacity.
	ReleaseSeat(ctx context.Context, flightNumber string) (int, error)
	DeleteBooking(ctx context.Context, id int64) error
}

type TxFunc func(ctx context.Context, tx Tx) error

type UserRepository interface {
	User(ctx context.Context, id int64) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	// DeleteUser removes the account with its passenger profile and bookings,
	// giving the booked seats back to their flights.
	DeleteUser(ctx context.Context, id int64) error
}

type Store interface {
	Reader
	UserRepository
	// InTx runs fn atomically. Errors returned by fn roll the unit back and
	// are returned unchanged.
	InTx(ctx context.Context, fn TxFunc) error
	SearchFlights(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error)
}
