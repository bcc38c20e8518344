package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParam_UnmarshalJSON(t *testing.T) {
	var req CreateBookingRequest
	err := json.Unmarshal([]byte(`{"passenger_id": 5, "flight_number": "A11", "price": 99.5}`), &req)
	require.NoError(t, err)

	assert.Equal(t, Param("5"), req.PassengerID)
	assert.Equal(t, Param("A11"), req.FlightNumber)
	assert.Equal(t, Param("99.5"), req.Price)

	id, err := req.PassengerID.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestParam_NullIsEmpty(t *testing.T) {
	var req CancelBookingRequest
	require.NoError(t, json.Unmarshal([]byte(`{"booking_id": null}`), &req))
	assert.True(t, req.BookingID.Empty())
}
