package repository

import (
	"context"

	"github.com/Domenick1991/airlines/internal/domain"
)

func (p pgQueries) AirportExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := p.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM airports WHERE code=$1)`, code).Scan(&exists)
	return exists, err
}

// Airplane locks the aircraft inside a unit of work, which serializes flight
// assignments for the same aircraft.
func (p pgQueries) Airplane(ctx context.Context, id int64) (*domain.Airplane, error) {
	row := p.q.QueryRow(ctx, p.forUpdate(`SELECT id, type, company, capacity FROM airplanes WHERE id=$1`), id)
	var a domain.Airplane
	if err := row.Scan(&a.ID, &a.Type, &a.Company, &a.Capacity); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (p pgQueries) PassengerExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := p.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM passengers WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}
