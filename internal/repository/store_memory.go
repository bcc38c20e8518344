package repository

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/Domenick1991/airlines/internal/domain"
)

type memTables struct {
	airports      map[string]domain.Airport
	airplanes     map[int64]domain.Airplane
	users         map[int64]domain.User
	passengers    map[int64]domain.Passenger
	flights       map[string]domain.Flight
	bookings      map[int64]domain.Booking
	nextBookingID int64
}

func (t *memTables) clone() *memTables {
	return &memTables{
		airports:      maps.Clone(t.airports),
		airplanes:     maps.Clone(t.airplanes),
		users:         maps.Clone(t.users),
		passengers:    maps.Clone(t.passengers),
		flights:       maps.Clone(t.flights),
		bookings:      maps.Clone(t.bookings),
		nextBookingID: t.nextBookingID,
	}
}

// MemoryStore keeps every table in process. A single slot serializes all
// access, and a unit of work mutates a copy that replaces the tables only
// on success.
type MemoryStore struct {
	slot   chan struct{}
	tables *memTables
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slot: make(chan struct{}, 1),
		tables: &memTables{
			airports:      map[string]domain.Airport{},
			airplanes:     map[int64]domain.Airplane{},
			users:         map[int64]domain.User{},
			passengers:    map[int64]domain.Passenger{},
			flights:       map[string]domain.Flight{},
			bookings:      map[int64]domain.Booking{},
			nextBookingID: 1,
		},
		now: time.Now,
	}
}

func (s *MemoryStore) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	select {
	case s.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, ctx.Err())
	}
}

func (s *MemoryStore) release() {
	<-s.slot
}

func (s *MemoryStore) InTx(ctx context.Context, fn TxFunc) error {
	return s.update(ctx, func(t *memTables) error {
		return fn(ctx, &memTx{t: t, now: s.now})
	})
}

func (s *MemoryStore) update(ctx context.Context, fn func(t *memTables) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	work := s.tables.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.tables = work
	return nil
}

func (s *MemoryStore) read(ctx context.Context, fn func(t *memTables) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return fn(s.tables)
}

func (s *MemoryStore) AirportExists(ctx context.Context, code string) (ok bool, err error) {
	err = s.read(ctx, func(t *memTables) error {
		ok = t.airportExists(code)
		return nil
	})
	return ok, err
}

func (s *MemoryStore) Airplane(ctx context.Context, id int64) (a *domain.Airplane, err error) {
	err = s.read(ctx, func(t *memTables) error {
		a, err = t.airplane(id)
		return err
	})
	return a, err
}

func (s *MemoryStore) AirplaneFlights(ctx context.Context, airplaneID int64, from, to time.Time) (flights []domain.Flight, err error) {
	err = s.read(ctx, func(t *memTables) error {
		flights = t.airplaneFlights(airplaneID, from, to)
		return nil
	})
	return flights, err
}

func (s *MemoryStore) PassengerExists(ctx context.Context, id int64) (ok bool, err error) {
	err = s.read(ctx, func(t *memTables) error {
		_, ok = t.passengers[id]
		return nil
	})
	return ok, err
}

func (s *MemoryStore) Flight(ctx context.Context, number string) (f *domain.Flight, err error) {
	err = s.read(ctx, func(t *memTables) error {
		f, err = t.flight(number)
		return err
	})
	return f, err
}

func (s *MemoryStore) BookingExists(ctx context.Context, passengerID int64, flightNumber string) (ok bool, err error) {
	err = s.read(ctx, func(t *memTables) error {
		ok = t.bookingExists(passengerID, flightNumber)
		return nil
	})
	return ok, err
}

func (s *MemoryStore) Booking(ctx context.Context, id int64) (b *domain.Booking, err error) {
	err = s.read(ctx, func(t *memTables) error {
		b, err = t.booking(id)
		return err
	})
	return b, err
}

func (s *MemoryStore) SearchFlights(ctx context.Context, q domain.FlightSearch) (flights []domain.Flight, err error) {
	err = s.read(ctx, func(t *memTables) error {
		flights = t.matching(q.Matches)
		return nil
	})
	return flights, err
}

func (s *MemoryStore) User(ctx context.Context, id int64) (u *domain.User, err error) {
	err = s.read(ctx, func(t *memTables) error {
		user, ok := t.users[id]
		if !ok {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
		}
		u = &user
		return nil
	})
	return u, err
}

func (s *MemoryStore) UpdateUser(ctx context.Context, u domain.User) error {
	return s.update(ctx, func(t *memTables) error {
		if _, ok := t.users[u.ID]; !ok {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, u.ID)
		}
		for id, other := range t.users {
			if id != u.ID && other.Username == u.Username {
				return fmt.Errorf("%w: username %s", domain.ErrDuplicate, u.Username)
			}
		}
		current := t.users[u.ID]
		current.Username, current.FirstName, current.LastName, current.Email = u.Username, u.FirstName, u.LastName, u.Email
		t.users[u.ID] = current
		return nil
	})
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id int64) error {
	return s.update(ctx, func(t *memTables) error {
		if _, ok := t.users[id]; !ok {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
		}
		for pid, p := range t.passengers {
			if p.UserID != id {
				continue
			}
			for bid, b := range t.bookings {
				if b.PassengerID == pid {
					t.releaseSeat(b.FlightNumber)
					delete(t.bookings, bid)
				}
			}
			delete(t.passengers, pid)
		}
		delete(t.users, id)
		return nil
	})
}

// Fixture loaders. They bypass validation and are meant for seeding.

func (s *MemoryStore) AddAirport(a domain.Airport) {
	s.slot <- struct{}{}
	defer s.release()
	s.tables.airports[a.Code] = a
}

func (s *MemoryStore) AddAirplane(a domain.Airplane) {
	s.slot <- struct{}{}
	defer s.release()
	s.tables.airplanes[a.ID] = a
}

func (s *MemoryStore) AddUser(u domain.User) {
	s.slot <- struct{}{}
	defer s.release()
	s.tables.users[u.ID] = u
}

func (s *MemoryStore) AddPassenger(p domain.Passenger) {
	s.slot <- struct{}{}
	defer s.release()
	s.tables.passengers[p.ID] = p
}

func (s *MemoryStore) AddFlight(f domain.Flight) {
	s.slot <- struct{}{}
	defer s.release()
	s.tables.flights[f.Number] = f
}

// Bookings returns every booking ordered by id.
func (s *MemoryStore) Bookings() []domain.Booking {
	s.slot <- struct{}{}
	defer s.release()
	out := slices.Collect(maps.Values(s.tables.bookings))
	slices.SortFunc(out, func(a, b domain.Booking) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

type memTx struct {
	t   *memTables
	now func() time.Time
}

func (tx *memTx) AirportExists(_ context.Context, code string) (bool, error) {
	return tx.t.airportExists(code), nil
}

func (tx *memTx) Airplane(_ context.Context, id int64) (*domain.Airplane, error) {
	return tx.t.airplane(id)
}

func (tx *memTx) AirplaneFlights(_ context.Context, airplaneID int64, from, to time.Time) ([]domain.Flight, error) {
	return tx.t.airplaneFlights(airplaneID, from, to), nil
}

func (tx *memTx) PassengerExists(_ context.Context, id int64) (bool, error) {
	_, ok := tx.t.passengers[id]
	return ok, nil
}

func (tx *memTx) Flight(_ context.Context, number string) (*domain.Flight, error) {
	return tx.t.flight(number)
}

func (tx *memTx) BookingExists(_ context.Context, passengerID int64, flightNumber string) (bool, error) {
	return tx.t.bookingExists(passengerID, flightNumber), nil
}

func (tx *memTx) Booking(_ context.Context, id int64) (*domain.Booking, error) {
	return tx.t.booking(id)
}

func (tx *memTx) InsertFlight(_ context.Context, f domain.Flight) error {
	if _, ok := tx.t.flights[f.Number]; ok {
		return fmt.Errorf("%w: flight %s", domain.ErrDuplicate, f.Number)
	}
	tx.t.flights[f.Number] = f
	return nil
}

func (tx *memTx) InsertBooking(_ context.Context, b *domain.Booking) error {
	if tx.t.bookingExists(b.PassengerID, b.FlightNumber) {
		return fmt.Errorf("%w: booking for passenger %d on %s", domain.ErrDuplicate, b.PassengerID, b.FlightNumber)
	}
	b.ID = tx.t.nextBookingID
	b.DateOfBooking = tx.now()
	tx.t.nextBookingID++
	tx.t.bookings[b.ID] = *b
	return nil
}

func (tx *memTx) TakeSeat(_ context.Context, flightNumber string) (int, error) {
	f, ok := tx.t.flights[flightNumber]
	if !ok || f.RemainingSeats <= 0 {
		return 0, fmt.Errorf("%w: flight %s", domain.ErrNoSeats, flightNumber)
	}
	f.RemainingSeats--
	tx.t.flights[flightNumber] = f
	return f.RemainingSeats, nil
}

func (tx *memTx) ReleaseSeat(_ context.Context, flightNumber string) (int, error) {
	if _, ok := tx.t.flights[flightNumber]; !ok {
		return 0, fmt.Errorf("%w: flight %s", domain.ErrNotFound, flightNumber)
	}
	return tx.t.releaseSeat(flightNumber), nil
}

func (tx *memTx) DeleteBooking(_ context.Context, id int64) error {
	if _, ok := tx.t.bookings[id]; !ok {
		return fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	delete(tx.t.bookings, id)
	return nil
}

func (t *memTables) airportExists(code string) bool {
	_, ok := t.airports[code]
	return ok
}

func (t *memTables) airplane(id int64) (*domain.Airplane, error) {
	a, ok := t.airplanes[id]
	if !ok {
		return nil, fmt.Errorf("%w: airplane %d", domain.ErrNotFound, id)
	}
	return &a, nil
}

func (t *memTables) flight(number string) (*domain.Flight, error) {
	f, ok := t.flights[number]
	if !ok {
		return nil, fmt.Errorf("%w: flight %s", domain.ErrNotFound, number)
	}
	return &f, nil
}

func (t *memTables) booking(id int64) (*domain.Booking, error) {
	b, ok := t.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
	}
	return &b, nil
}

func (t *memTables) bookingExists(passengerID int64, flightNumber string) bool {
	for _, b := range t.bookings {
		if b.PassengerID == passengerID && b.FlightNumber == flightNumber {
			return true
		}
	}
	return false
}

func (t *memTables) airplaneFlights(airplaneID int64, from, to time.Time) []domain.Flight {
	return t.matching(func(f domain.Flight) bool {
		return f.AirplaneID == airplaneID && f.Overlaps(from, to)
	})
}

// matching returns flights ordered by departure time, then number.
func (t *memTables) matching(keep func(domain.Flight) bool) []domain.Flight {
	out := make([]domain.Flight, 0)
	for _, f := range t.flights {
		if keep(f) {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b domain.Flight) int {
		if c := a.DepartureTime.Compare(b.DepartureTime); c != 0 {
			return c
		}
		return strings.Compare(a.Number, b.Number)
	})
	return out
}

func (t *memTables) releaseSeat(flightNumber string) int {
	f := t.flights[flightNumber]
	capacity := f.RemainingSeats + 1
	if a, ok := t.airplanes[f.AirplaneID]; ok {
		capacity = a.Capacity
	}
	f.RemainingSeats = min(f.RemainingSeats+1, capacity)
	t.flights[flightNumber] = f
	return f.RemainingSeats
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Tx    = (*memTx)(nil)
)
