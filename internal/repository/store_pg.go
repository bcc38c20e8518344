package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Domenick1991/airlines/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGOption func(*PGStore)

func WithQueryTimeout(d time.Duration) PGOption {
	return func(s *PGStore) {
		s.timeout = d
	}
}

// WithMaxRetries bounds how many times a unit of work is replayed after a
// serialization failure or deadlock.
func WithMaxRetries(n int) PGOption {
	return func(s *PGStore) {
		s.maxRetries = n
	}
}

type PGStore struct {
	read       pgQueries
	db         *pgxpool.Pool
	timeout    time.Duration
	maxRetries int
}

func NewPGStore(db *pgxpool.Pool, opts ...PGOption) *PGStore {
	s := &PGStore{
		read:       pgQueries{q: db},
		db:         db,
		timeout:    5 * time.Second,
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PGStore) InTx(ctx context.Context, fn TxFunc) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return fn(ctx, &pgTx{pgQueries{q: tx, lock: true}})
		})
		if err == nil || isRetryable(err) {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	},
		backoff.WithBackOff(newTxBackOff()),
		backoff.WithMaxTries(uint(s.maxRetries)+1),
	)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	return translate(err)
}

func (s *PGStore) runTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *PGStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *PGStore) AirportExists(ctx context.Context, code string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.read.AirportExists(ctx, code)
	return ok, translate(err)
}

func (s *PGStore) Airplane(ctx context.Context, id int64) (*domain.Airplane, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	a, err := s.read.Airplane(ctx, id)
	return a, translate(err)
}

func (s *PGStore) AirplaneFlights(ctx context.Context, airplaneID int64, from, to time.Time) ([]domain.Flight, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	flights, err := s.read.AirplaneFlights(ctx, airplaneID, from, to)
	return flights, translate(err)
}

func (s *PGStore) PassengerExists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.read.PassengerExists(ctx, id)
	return ok, translate(err)
}

func (s *PGStore) Flight(ctx context.Context, number string) (*domain.Flight, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	f, err := s.read.Flight(ctx, number)
	return f, translate(err)
}

func (s *PGStore) BookingExists(ctx context.Context, passengerID int64, flightNumber string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	ok, err := s.read.BookingExists(ctx, passengerID, flightNumber)
	return ok, translate(err)
}

func (s *PGStore) Booking(ctx context.Context, id int64) (*domain.Booking, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	b, err := s.read.Booking(ctx, id)
	return b, translate(err)
}

func (s *PGStore) SearchFlights(ctx context.Context, q domain.FlightSearch) ([]domain.Flight, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	flights, err := s.read.SearchFlights(ctx, q)
	return flights, translate(err)
}

type pgTx struct {
	pgQueries
}

var (
	_ Store = (*PGStore)(nil)
	_ Tx    = (*pgTx)(nil)
)

func newTxBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	return b
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// translate maps driver errors onto the domain sentinels callers branch on.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	case isRetryable(err):
		return fmt.Errorf("%w: retries exhausted: %v", domain.ErrStoreUnavailable, err)
	default:
		return err
	}
}
