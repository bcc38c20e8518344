package validation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Code string

const (
	CodeMissingParams           Code = "MissingParams"
	CodeInvalidAirport          Code = "InvalidAirport"
	CodeInvalidDepartureAirport Code = "InvalidDepartureAirport"
	CodeInvalidArrivalAirport   Code = "InvalidArrivalAirport"
	CodeInvalidDatetimeFormat   Code = "InvalidDatetimeFormat"
	CodeInvalidTimeOfFlight     Code = "InvalidTimeOfFlight"
	CodeAircraftBusy            Code = "AircraftBusy"
	CodeAircraftNotFound        Code = "AircraftNotFound"
	CodeInvalidDate             Code = "InvalidDate"
	CodeInvalidPassenger        Code = "InvalidPassenger"
	CodeInvalidFlight           Code = "InvalidFlight"
	CodeInvalidBooking          Code = "InvalidBooking"
	CodeInvalidPrice            Code = "InvalidPrice"
	CodeNoRecordsFound          Code = "NoRecordsFound"
	CodeNoSeatsRemaining        Code = "NoSeatsRemaining"
	CodeAlreadyBooked           Code = "AlreadyBooked"
	CodeFlightExists            Code = "FlightExists"
	CodeInvalidUser             Code = "InvalidUser"
	CodeUsernameTaken           Code = "UsernameTaken"
)

var messages = map[Code]string{
	CodeMissingParams:           "parameters missing %s",
	CodeInvalidAirport:          "departure airport and arrival airport can't be the same",
	CodeInvalidDatetimeFormat:   "the datetime format for arrival time or departure time is invalid. Desired format %s",
	CodeInvalidTimeOfFlight:     "departure time should be greater than arrival time and both time shall be greater than current time",
	CodeAircraftBusy:            "For aircraft id %d, new flight is clashing with flight ids %s",
	CodeAircraftNotFound:        "For aircraft id %s, no such aircraft exists",
	CodeInvalidDepartureAirport: "airport id %s for departure doesn't exists",
	CodeInvalidArrivalAirport:   "airport id %s for arrival doesn't exists",
	CodeInvalidDate:             "date of search cannot be less than current date",
	CodeInvalidPassenger:        "no such passenger id %s exists",
	CodeInvalidFlight:           "no such flight id %s exists",
	CodeInvalidBooking:          "no such booking id %s exists",
	CodeInvalidPrice:            "invalid price %s",
	CodeNoRecordsFound:          "no flights found",
	CodeNoSeatsRemaining:        "no seats remaining",
	CodeAlreadyBooked:           "There is already a booking for this flight %s and passenger id %d",
	CodeFlightExists:            "flight number %s already exists",
	CodeInvalidUser:             "no such user id %s exists",
	CodeUsernameTaken:           "This username has already been taken",
}

// Failure is a request-scoped rejection. It terminates the pipeline that
// produced it and is reported to the caller as-is.
type Failure struct {
	Code    Code
	Message string
	Status  int
}

func (f *Failure) Error() string {
	return f.Message
}

func newFailure(code Code, args ...any) *Failure {
	msg := messages[code]
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &Failure{Code: code, Message: msg, Status: http.StatusBadRequest}
}

// AsFailure unwraps err into a *Failure when it is one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func MissingParams(fields []string) *Failure {
	return newFailure(CodeMissingParams, strings.Join(fields, ", "))
}

func InvalidDatetimeFormat(layout string) *Failure {
	return newFailure(CodeInvalidDatetimeFormat, layout)
}

func AircraftBusy(airplaneID int64, flightNumbers []string) *Failure {
	return newFailure(CodeAircraftBusy, airplaneID, strings.Join(flightNumbers, ", "))
}

func InvalidBooking(id string) *Failure {
	return newFailure(CodeInvalidBooking, id)
}

func NoSeatsRemaining() *Failure {
	return newFailure(CodeNoSeatsRemaining)
}

func AlreadyBooked(flightNumber string, passengerID int64) *Failure {
	return newFailure(CodeAlreadyBooked, flightNumber, passengerID)
}

func FlightExists(flightNumber string) *Failure {
	return newFailure(CodeFlightExists, flightNumber)
}

func InvalidUser(id string) *Failure {
	return newFailure(CodeInvalidUser, id)
}

func UsernameTaken() *Failure {
	return newFailure(CodeUsernameTaken)
}

// NoRecordsFound is not an error: it carries the message returned with an
// empty search result.
func NoRecordsFound() *Failure {
	return &Failure{Code: CodeNoRecordsFound, Message: messages[CodeNoRecordsFound], Status: http.StatusNoContent}
}
