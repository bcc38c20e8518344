package validation

import (
	"context"
	"time"

	"github.com/Domenick1991/airlines/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) AirportExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockLookup) Airplane(ctx context.Context, id int64) (*domain.Airplane, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airplane), args.Error(1)
}

func (m *MockLookup) AirplaneFlights(ctx context.Context, airplaneID int64, from, to time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, airplaneID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockLookup) PassengerExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLookup) Flight(ctx context.Context, number string) (*domain.Flight, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockLookup) BookingExists(ctx context.Context, passengerID int64, flightNumber string) (bool, error) {
	args := m.Called(ctx, passengerID, flightNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockLookup) Booking(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

var _ Lookup = (*MockLookup)(nil)
