package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"

	"github.com/Domenick1991/airlines/internal/domain"
)

func (s *PGStore) User(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRow(ctx, `SELECT id, username, first_name, last_name, email, date_joined FROM users WHERE id=$1`, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.DateJoined); err != nil {
		return nil, translate(notFound(err))
	}
	return &u, nil
}

func (s *PGStore) UpdateUser(ctx context.Context, u domain.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cmd, err := s.db.Exec(ctx, `UPDATE users SET username=$2, first_name=$3, last_name=$4, email=$5 WHERE id=$1`,
		u.ID, u.Username, u.FirstName, u.LastName, u.Email)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: username %s", domain.ErrDuplicate, u.Username)
	}
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, u.ID)
	}
	return nil
}

func (s *PGStore) DeleteUser(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// Deleting first locks each booking row, so a booking cancelled
		// concurrently is skipped here instead of being released twice.
		rows, err := tx.Query(ctx, `DELETE FROM bookings b USING passengers p
			WHERE b.passenger_id = p.id AND p.user_id = $1
			RETURNING b.flight_number`, id)
		if err != nil {
			return err
		}
		numbers, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}

		released := make(map[string]int, len(numbers))
		for _, n := range numbers {
			released[n]++
		}
		// fixed lock order against concurrent bookings
		slices.Sort(numbers)
		numbers = slices.Compact(numbers)
		for _, n := range numbers {
			if _, err := tx.Exec(ctx, `UPDATE flights f SET remaining_seats = LEAST(f.remaining_seats + $2, a.capacity)
				FROM airplanes a
				WHERE a.id = f.airplane_id AND f.flight_number = $1`, n, released[n]); err != nil {
				return err
			}
		}

		cmd, err := tx.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
		}
		return nil
	})
	return translate(err)
}
