package validation

import (
	"context"
	"testing"

	"github.com/Domenick1991/airlines/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validBooking() CreateBookingRequest {
	return CreateBookingRequest{PassengerID: "5", FlightNumber: "A11", Price: "120.50"}
}

func TestCreateBooking_Success(t *testing.T) {
	ctx := context.Background()
	lk := &MockLookup{}
	flight := &domain.Flight{Number: "A11", RemainingSeats: 3}
	lk.On("PassengerExists", ctx, int64(5)).Return(true, nil).Once()
	lk.On("Flight", ctx, "A11").Return(flight, nil).Once()
	lk.On("BookingExists", ctx, int64(5), "A11").Return(false, nil).Once()

	plan, err := newTestValidator().CreateBooking(ctx, lk, validBooking())

	require.NoError(t, err)
	assert.Equal(t, BookingPlan{PassengerID: 5, Flight: *flight, Price: 120.5}, plan)
	lk.AssertExpectations(t)
}

func TestCreateBooking_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing params", func(t *testing.T) {
		lk := &MockLookup{}

		_, err := newTestValidator().CreateBooking(ctx, lk, CreateBookingRequest{FlightNumber: "A11"})

		f := requireFailure(t, err, CodeMissingParams)
		assert.Equal(t, "parameters missing passenger_id, price", f.Message)
	})

	t.Run("unknown passenger", func(t *testing.T) {
		lk := &MockLookup{}
		lk.On("PassengerExists", ctx, int64(5)).Return(false, nil).Once()

		_, err := newTestValidator().CreateBooking(ctx, lk, validBooking())

		f := requireFailure(t, err, CodeInvalidPassenger)
		assert.Equal(t, "no such passenger id 5 exists", f.Message)
		lk.AssertNotCalled(t, "Flight", mock.Anything, mock.Anything)
	})

	t.Run("non numeric passenger", func(t *testing.T) {
		lk := &MockLookup{}
		req := validBooking()
		req.PassengerID = "abc"

		_, err := newTestValidator().CreateBooking(ctx, lk, req)

		requireFailure(t, err, CodeInvalidPassenger)
	})

	t.Run("unknown flight", func(t *testing.T) {
		lk := &MockLookup{}
		lk.On("PassengerExists", ctx, int64(5)).Return(true, nil).Once()
		lk.On("Flight", ctx, "A11").Return(nil, domain.ErrNotFound).Once()

		_, err := newTestValidator().CreateBooking(ctx, lk, validBooking())

		f := requireFailure(t, err, CodeInvalidFlight)
		assert.Equal(t, "no such flight id A11 exists", f.Message)
	})

	t.Run("no seats", func(t *testing.T) {
		lk := &MockLookup{}
		lk.On("PassengerExists", ctx, int64(5)).Return(true, nil).Once()
		lk.On("Flight", ctx, "A11").Return(&domain.Flight{Number: "A11"}, nil).Once()

		_, err := newTestValidator().CreateBooking(ctx, lk, validBooking())

		requireFailure(t, err, CodeNoSeatsRemaining)
		lk.AssertNotCalled(t, "BookingExists", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already booked", func(t *testing.T) {
		lk := &MockLookup{}
		lk.On("PassengerExists", ctx, int64(5)).Return(true, nil).Once()
		lk.On("Flight", ctx, "A11").Return(&domain.Flight{Number: "A11", RemainingSeats: 1}, nil).Once()
		lk.On("BookingExists", ctx, int64(5), "A11").Return(true, nil).Once()

		_, err := newTestValidator().CreateBooking(ctx, lk, validBooking())

		f := requireFailure(t, err, CodeAlreadyBooked)
		assert.Equal(t, "There is already a booking for this flight A11 and passenger id 5", f.Message)
	})

	t.Run("price rounded to cents", func(t *testing.T) {
		lk := &MockLookup{}
		lk.On("PassengerExists", ctx, int64(5)).Return(true, nil).Once()
		lk.On("Flight", ctx, "A11").Return(&domain.Flight{Number: "A11", RemainingSeats: 1}, nil).Once()
		lk.On("BookingExists", ctx, int64(5), "A11").Return(false, nil).Once()
		req := validBooking()
		req.Price = "19.999"

		plan, err := newTestValidator().CreateBooking(ctx, lk, req)

		require.NoError(t, err)
		assert.Equal(t, 20.0, plan.Price)
	})

	for _, price := range []Param{"free", "-1", "NaN", "Inf", "10000000000", "1e12"} {
		t.Run("invalid price "+price.String(), func(t *testing.T) {
			lk := &MockLookup{}
			lk.On("PassengerExists", ctx, int64(5)).Return(true, nil).Once()
			lk.On("Flight", ctx, "A11").Return(&domain.Flight{Number: "A11", RemainingSeats: 1}, nil).Once()
			lk.On("BookingExists", ctx, int64(5), "A11").Return(false, nil).Once()
			req := validBooking()
			req.Price = price

			_, err := newTestValidator().CreateBooking(ctx, lk, req)

			f := requireFailure(t, err, CodeInvalidPrice)
			assert.Equal(t, "invalid price "+price.String(), f.Message)
		})
	}
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("existing", func(t *testing.T) {
		lk := &MockLookup{}
		b := &domain.Booking{ID: 3, PassengerID: 5, FlightNumber: "A11"}
		lk.On("Booking", ctx, int64(3)).Return(b, nil).Once()

		plan, err := newTestValidator().CancelBooking(ctx, lk, CancelBookingRequest{BookingID: "3"})

		require.NoError(t, err)
		assert.Equal(t, *b, plan.Booking)
	})

	t.Run("unknown", func(t *testing.T) {
		lk := &MockLookup{}
		lk.On("Booking", ctx, int64(99)).Return(nil, domain.ErrNotFound).Once()

		_, err := newTestValidator().CancelBooking(ctx, lk, CancelBookingRequest{BookingID: "99"})

		f := requireFailure(t, err, CodeInvalidBooking)
		assert.Equal(t, "no such booking id 99 exists", f.Message)
	})

	t.Run("missing", func(t *testing.T) {
		lk := &MockLookup{}

		_, err := newTestValidator().CancelBooking(ctx, lk, CancelBookingRequest{})

		requireFailure(t, err, CodeInvalidBooking)
		lk.AssertNotCalled(t, "Booking", mock.Anything, mock.Anything)
	})
}
