package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Domenick1991/airlines/internal/domain"
)

const flightColumns = `flight_number, airplane_id, departure_id, arrival_id, departure_time, arrival_time, remaining_seats`

func scanFlight(row pgx.Row) (domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.Number, &f.AirplaneID, &f.DepartureID, &f.ArrivalID, &f.DepartureTime, &f.ArrivalTime, &f.RemainingSeats)
	return f, err
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (p pgQueries) Flight(ctx context.Context, number string) (*domain.Flight, error) {
	row := p.q.QueryRow(ctx, p.forUpdate(`SELECT `+flightColumns+` FROM flights WHERE flight_number=$1`), number)
	f, err := scanFlight(row)
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (p pgQueries) AirplaneFlights(ctx context.Context, airplaneID int64, from, to time.Time) ([]domain.Flight, error) {
	rows, err := p.q.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE airplane_id=$1
		AND LEAST(departure_time, arrival_time) <= $3
		AND GREATEST(departure_time, arrival_time) >= $2
		ORDER BY departure_time, flight_number`, airplaneID, from, to)
	if err != nil {
		return nil, err
	}
	return collectFlights(rows)
}

func (p pgQueries) SearchFlights(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error) {
	rows, err := p.q.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE departure_id=$1 AND arrival_id=$2
		AND departure_time >= $3 AND departure_time < $4
		AND remaining_seats > 0
		ORDER BY departure_time, flight_number`, q.DepartureID, q.ArrivalID, q.From, q.To)
	if err != nil {
		return nil, err
	}
	return collectFlights(rows)
}

func (p pgQueries) InsertFlight(ctx context.Context, f domain.Flight) error {
	_, err := p.q.Exec(ctx, `INSERT INTO flights (`+flightColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		f.Number, f.AirplaneID, f.DepartureID, f.ArrivalID, f.DepartureTime, f.ArrivalTime, f.RemainingSeats)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: flight %s", domain.ErrDuplicate, f.Number)
	}
	return err
}

func (p pgQueries) TakeSeat(ctx context.Context, flightNumber string) (int, error) {
	var remaining int
	err := p.q.QueryRow(ctx, `UPDATE flights SET remaining_seats = remaining_seats - 1
		WHERE flight_number=$1 AND remaining_seats > 0
		RETURNING remaining_seats`, flightNumber).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: flight %s", domain.ErrNoSeats, flightNumber)
	}
	return remaining, err
}

func (p pgQueries) ReleaseSeat(ctx context.Context, flightNumber string) (int, error) {
	var remaining int
	err := p.q.QueryRow(ctx, `UPDATE flights f SET remaining_seats = LEAST(f.remaining_seats + 1, a.capacity)
		FROM airplanes a
		WHERE a.id = f.airplane_id AND f.flight_number=$1
		RETURNING f.remaining_seats`, flightNumber).Scan(&remaining)
	if err != nil {
		return 0, notFound(err)
	}
	return remaining, nil
}
