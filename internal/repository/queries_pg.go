package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Domenick1991/airlines/internal/domain"
)

// pgQueries holds the SQL shared by the pool and transactions. With lock set,
// single-row reads take FOR UPDATE.
type pgQueries struct {
	q    querier
	lock bool
}

func (p pgQueries) forUpdate(query string) string {
	if p.lock {
		return query + " FOR UPDATE"
	}
	return query
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	return err
}
