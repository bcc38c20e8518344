package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/airlines/internal/domain"
)

func day(hour int) time.Time {
	return time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
}

func seededStore() *MemoryStore {
	s := NewMemoryStore()
	s.AddAirport(domain.Airport{Code: "JFK"})
	s.AddAirport(domain.Airport{Code: "LAX"})
	s.AddAirplane(domain.Airplane{ID: 1, Capacity: 2})
	s.AddUser(domain.User{ID: 10, Username: "alice"})
	s.AddUser(domain.User{ID: 11, Username: "bob"})
	s.AddPassenger(domain.Passenger{ID: 5, UserID: 10})
	s.AddFlight(domain.Flight{Number: "A10", AirplaneID: 1, DepartureID: "JFK", ArrivalID: "LAX", DepartureTime: day(10), ArrivalTime: day(12), RemainingSeats: 2})
	return s
}

func TestMemoryStore_InTxRollsBackOnError(t *testing.T) {
	s := seededStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		_, err := tx.TakeSeat(ctx, "A10")
		require.NoError(t, err)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	f, err := s.Flight(ctx, "A10")
	require.NoError(t, err)
	assert.Equal(t, 2, f.RemainingSeats)
}

func TestMemoryStore_TakeAndReleaseSeat(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	err := s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		left, err := tx.TakeSeat(ctx, "A10")
		require.NoError(t, err)
		assert.Equal(t, 1, left)

		left, err = tx.TakeSeat(ctx, "A10")
		require.NoError(t, err)
		assert.Equal(t, 0, left)

		_, err = tx.TakeSeat(ctx, "A10")
		assert.ErrorIs(t, err, domain.ErrNoSeats)

		left, err = tx.ReleaseSeat(ctx, "A10")
		require.NoError(t, err)
		assert.Equal(t, 1, left)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_ReleaseSeatCappedAtCapacity(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	err := s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		left, err := tx.ReleaseSeat(ctx, "A10")
		require.NoError(t, err)
		assert.Equal(t, 2, left)

		_, err = tx.ReleaseSeat(ctx, "ZZ1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryStore_InsertBookingUnique(t *testing.T) {
	s := seededStore()
	s.now = func() time.Time { return day(8) }
	ctx := context.Background()

	err := s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		b := &domain.Booking{PassengerID: 5, FlightNumber: "A10", Price: 10, PricePaid: true}
		require.NoError(t, tx.InsertBooking(ctx, b))
		assert.Equal(t, int64(1), b.ID)
		assert.Equal(t, day(8), b.DateOfBooking)

		err := tx.InsertBooking(ctx, &domain.Booking{PassengerID: 5, FlightNumber: "A10"})
		assert.ErrorIs(t, err, domain.ErrDuplicate)
		return nil
	})
	require.NoError(t, err)

	exists, err := s.BookingExists(ctx, 5, "A10")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Len(t, s.Bookings(), 1)
}

func TestMemoryStore_InsertFlightDuplicate(t *testing.T) {
	s := seededStore()

	err := s.InTx(context.Background(), func(ctx context.Context, tx Tx) error {
		return tx.InsertFlight(ctx, domain.Flight{Number: "A10"})
	})

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestMemoryStore_AirplaneFlightsOrderedOverlaps(t *testing.T) {
	s := seededStore()
	s.AddFlight(domain.Flight{Number: "A09", AirplaneID: 1, DepartureTime: day(6), ArrivalTime: day(9)})
	s.AddFlight(domain.Flight{Number: "B01", AirplaneID: 2, DepartureTime: day(10), ArrivalTime: day(12)})
	ctx := context.Background()

	flights, err := s.AirplaneFlights(ctx, 1, day(8), day(11))
	require.NoError(t, err)
	require.Len(t, flights, 2)
	assert.Equal(t, "A09", flights[0].Number)
	assert.Equal(t, "A10", flights[1].Number)

	flights, err = s.AirplaneFlights(ctx, 1, day(13), day(14))
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestMemoryStore_SearchFlights(t *testing.T) {
	s := seededStore()
	s.AddFlight(domain.Flight{Number: "A12", AirplaneID: 1, DepartureID: "JFK", ArrivalID: "LAX", DepartureTime: day(18), RemainingSeats: 0})

	flights, err := s.SearchFlights(context.Background(), domain.FlightSearch{
		DepartureID: "JFK", ArrivalID: "LAX", From: day(0), To: day(0).AddDate(0, 0, 1),
	})

	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "A10", flights[0].Number)
}

func TestMemoryStore_Users(t *testing.T) {
	s := seededStore()
	ctx := context.Background()

	u, err := s.User(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	u.Username = "bob"
	assert.ErrorIs(t, s.UpdateUser(ctx, *u), domain.ErrDuplicate)

	u.Username = "alice2"
	u.Email = "alice@example.com"
	require.NoError(t, s.UpdateUser(ctx, *u))
	u, err = s.User(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "alice2", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)

	assert.ErrorIs(t, s.UpdateUser(ctx, domain.User{ID: 99, Username: "x"}), domain.ErrNotFound)
	_, err = s.User(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore_DeleteUserReleasesSeats(t *testing.T) {
	s := seededStore()
	ctx := context.Background()
	require.NoError(t, s.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.InsertBooking(ctx, &domain.Booking{PassengerID: 5, FlightNumber: "A10"}); err != nil {
			return err
		}
		_, err := tx.TakeSeat(ctx, "A10")
		return err
	}))

	require.NoError(t, s.DeleteUser(ctx, 10))

	f, err := s.Flight(ctx, "A10")
	require.NoError(t, err)
	assert.Equal(t, 2, f.RemainingSeats)
	assert.Empty(t, s.Bookings())
	ok, err := s.PassengerExists(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.DeleteUser(ctx, 10), domain.ErrNotFound)
}

func TestMemoryStore_BusyStoreHonoursDeadline(t *testing.T) {
	s := seededStore()
	s.slot <- struct{}{}
	defer s.release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.InTx(ctx, func(ctx context.Context, tx Tx) error { return nil })
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestLoadFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	data := `
airports:
  - {code: JFK, name: John F Kennedy, city: New York, state: NY, country: USA}
  - {code: LAX, name: Los Angeles, city: Los Angeles, state: CA, country: USA}
airplanes:
  - {id: 1, type: A320, company: Airbus, capacity: 180}
users:
  - {id: 10, username: alice, email: alice@example.com}
passengers:
  - {id: 5, user_id: 10, cell_phone_number: "555-0100", gender: female}
flights:
  - flight_number: A10
    airplane_id: 1
    departure_id: JFK
    arrival_id: LAX
    departure_time: 2024-01-01T10:00:00Z
    arrival_time: 2024-01-01T12:00:00Z
    remaining_seats: 180
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	fx, err := LoadFixtures(path)
	require.NoError(t, err)

	s := NewMemoryStore()
	s.Seed(fx)
	ctx := context.Background()

	ok, err := s.AirportExists(ctx, "LAX")
	require.NoError(t, err)
	assert.True(t, ok)

	a, err := s.Airplane(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 180, a.Capacity)

	f, err := s.Flight(ctx, "A10")
	require.NoError(t, err)
	assert.Equal(t, day(10), f.DepartureTime.UTC())
	assert.Equal(t, 180, f.RemainingSeats)
}
