//go:build integration

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Domenick1991/airlines/internal/domain"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "airlines",
				"POSTGRES_PASSWORD": "airlines",
				"POSTGRES_DB":       "airlines",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	url := fmt.Sprintf("airlines:airlines@%s:%s/airlines?sslmode=disable", host, port.Port())
	require.NoError(t, Migrate("pgx5://"+url))

	pool, err := pgxpool.New(ctx, "postgres://"+url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	seed := []string{
		`INSERT INTO airports (code, name, city, state, country) VALUES
			('JFK', 'John F Kennedy', 'New York', 'NY', 'USA'),
			('LAX', 'Los Angeles', 'Los Angeles', 'CA', 'USA')`,
		`INSERT INTO airplanes (id, type, company, capacity) VALUES (1, 'A320', 'Airbus', 1)`,
		`INSERT INTO users (id, username) VALUES (10, 'alice'), (11, 'bob')`,
		`INSERT INTO passengers (id, user_id, cell_phone_number, date_of_birth, gender) VALUES
			(5, 10, '555-0100', '1990-01-01', 'female'),
			(6, 11, '555-0101', '1991-01-01', 'male')`,
		`INSERT INTO flights (flight_number, airplane_id, departure_id, arrival_id, departure_time, arrival_time, remaining_seats)
			VALUES ('A10', 1, 'JFK', 'LAX', '2030-01-01 10:00:00+00', '2030-01-01 12:00:00+00', 1)`,
	}
	for _, q := range seed {
		_, err := pool.Exec(ctx, q)
		require.NoError(t, err)
	}
	return pool
}

func TestPGStore_LastSeatIsTakenOnce(t *testing.T) {
	store := NewPGStore(startPostgres(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, passenger := range []int64{5, 6} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.InTx(ctx, func(ctx context.Context, tx Tx) error {
				f, err := tx.Flight(ctx, "A10")
				if err != nil {
					return err
				}
				if f.RemainingSeats == 0 {
					return domain.ErrNoSeats
				}
				if err := tx.InsertBooking(ctx, &domain.Booking{PassengerID: passenger, FlightNumber: "A10", Price: 99.5, PricePaid: true}); err != nil {
					return err
				}
				_, err = tx.TakeSeat(ctx, "A10")
				return err
			})
		}()
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrNoSeats):
			rejected++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)

	f, err := store.Flight(ctx, "A10")
	require.NoError(t, err)
	assert.Equal(t, 0, f.RemainingSeats)
}

func TestPGStore_BookingLifecycle(t *testing.T) {
	store := NewPGStore(startPostgres(t))
	ctx := context.Background()

	b := &domain.Booking{PassengerID: 5, FlightNumber: "A10", Price: 120, PricePaid: true}
	require.NoError(t, store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.InsertBooking(ctx, b); err != nil {
			return err
		}
		_, err := tx.TakeSeat(ctx, "A10")
		return err
	}))
	assert.NotZero(t, b.ID)
	assert.False(t, b.DateOfBooking.IsZero())

	err := store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		return tx.InsertBooking(ctx, &domain.Booking{PassengerID: 5, FlightNumber: "A10"})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.DeleteBooking(ctx, b.ID); err != nil {
			return err
		}
		left, err := tx.ReleaseSeat(ctx, "A10")
		assert.Equal(t, 1, left)
		return err
	}))

	// capped at capacity
	require.NoError(t, store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		left, err := tx.ReleaseSeat(ctx, "A10")
		assert.Equal(t, 1, left)
		return err
	}))

	_, err = store.Booking(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPGStore_SearchAndClash(t *testing.T) {
	store := NewPGStore(startPostgres(t))
	ctx := context.Background()
	day := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	flights, err := store.SearchFlights(ctx, domain.FlightSearch{DepartureID: "JFK", ArrivalID: "LAX", From: day, To: day.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "A10", flights[0].Number)

	clash, err := store.AirplaneFlights(ctx, 1, day.Add(11*time.Hour), day.Add(14*time.Hour))
	require.NoError(t, err)
	require.Len(t, clash, 1)

	clash, err = store.AirplaneFlights(ctx, 1, day.Add(13*time.Hour), day.Add(14*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, clash)
}

func TestPGStore_DeleteUserReleasesSeats(t *testing.T) {
	store := NewPGStore(startPostgres(t))
	ctx := context.Background()

	require.NoError(t, store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.InsertBooking(ctx, &domain.Booking{PassengerID: 5, FlightNumber: "A10"}); err != nil {
			return err
		}
		_, err := tx.TakeSeat(ctx, "A10")
		return err
	}))

	require.NoError(t, store.DeleteUser(ctx, 10))

	f, err := store.Flight(ctx, "A10")
	require.NoError(t, err)
	assert.Equal(t, 1, f.RemainingSeats)
	_, err = store.User(ctx, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func seedWideFlight(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	seed := []string{
		`INSERT INTO airplanes (id, type, company, capacity) VALUES (2, 'B737', 'Boeing', 3)`,
		`INSERT INTO passengers (id, user_id, cell_phone_number, date_of_birth, gender) VALUES
			(7, 10, '555-0102', '2015-01-01', 'male')`,
		`INSERT INTO flights (flight_number, airplane_id, departure_id, arrival_id, departure_time, arrival_time, remaining_seats)
			VALUES ('B20', 2, 'JFK', 'LAX', '2030-01-02 10:00:00+00', '2030-01-02 12:00:00+00', 3)`,
	}
	for _, q := range seed {
		_, err := pool.Exec(context.Background(), q)
		require.NoError(t, err)
	}
}

func bookSeat(t *testing.T, store *PGStore, passengerID int64, number string) *domain.Booking {
	t.Helper()
	b := &domain.Booking{PassengerID: passengerID, FlightNumber: number, Price: 50, PricePaid: true}
	require.NoError(t, store.InTx(context.Background(), func(ctx context.Context, tx Tx) error {
		if err := tx.InsertBooking(ctx, b); err != nil {
			return err
		}
		_, err := tx.TakeSeat(ctx, number)
		return err
	}))
	return b
}

func TestPGStore_DeleteUserReleasesEveryPassengerSeat(t *testing.T) {
	pool := startPostgres(t)
	seedWideFlight(t, pool)
	store := NewPGStore(pool)
	ctx := context.Background()

	bookSeat(t, store, 5, "B20")
	bookSeat(t, store, 7, "B20")
	bookSeat(t, store, 6, "B20")

	require.NoError(t, store.DeleteUser(ctx, 10))

	f, err := store.Flight(ctx, "B20")
	require.NoError(t, err)
	assert.Equal(t, 2, f.RemainingSeats)
}

func TestPGStore_DeleteUserDuringCancelReleasesSeatOnce(t *testing.T) {
	pool := startPostgres(t)
	seedWideFlight(t, pool)
	store := NewPGStore(pool)
	ctx := context.Background()

	b := bookSeat(t, store, 5, "B20")
	bookSeat(t, store, 6, "B20")

	deleted := make(chan error, 1)
	require.NoError(t, store.InTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.DeleteBooking(ctx, b.ID); err != nil {
			return err
		}
		if _, err := tx.ReleaseSeat(ctx, "B20"); err != nil {
			return err
		}
		// the user deletion starts while the cancellation still holds its locks
		go func() {
			deleted <- store.DeleteUser(context.Background(), 10)
		}()
		time.Sleep(300 * time.Millisecond)
		return nil
	}))
	require.NoError(t, <-deleted)

	f, err := store.Flight(ctx, "B20")
	require.NoError(t, err)
	assert.Equal(t, 2, f.RemainingSeats)
}
