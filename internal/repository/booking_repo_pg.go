package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airlines/internal/domain"
)

func (p pgQueries) Booking(ctx context.Context, id int64) (*domain.Booking, error) {
	row := p.q.QueryRow(ctx, p.forUpdate(`SELECT id, passenger_id, flight_number, date_of_booking, price, price_paid FROM bookings WHERE id=$1`), id)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.PassengerID, &b.FlightNumber, &b.DateOfBooking, &b.Price, &b.PricePaid); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (p pgQueries) BookingExists(ctx context.Context, passengerID int64, flightNumber string) (bool, error) {
	var exists bool
	err := p.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE passenger_id=$1 AND flight_number=$2)`, passengerID, flightNumber).Scan(&exists)
	return exists, err
}

func (p pgQueries) InsertBooking(ctx context.Context, b *domain.Booking) error {
	err := p.q.QueryRow(ctx, `INSERT INTO bookings (passenger_id, flight_number, price, price_paid)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date_of_booking`, b.PassengerID, b.FlightNumber, b.Price, b.PricePaid).
		Scan(&b.ID, &b.DateOfBooking)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: booking for passenger %d on %s", domain.ErrDuplicate, b.PassengerID, b.FlightNumber)
	}
	return err
}

func (p pgQueries) DeleteBooking(ctx context.Context, id int64) error {
	cmd, err := p.q.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	return nil
}
