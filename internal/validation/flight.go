package validation

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/airlines/internal/domain"
)

type assignState struct {
	lk   Lookup
	req  AssignFlightRequest
	now  time.Time
	loc  *time.Location
	plan FlightPlan
}

// AssignFlight validates a new flight for an aircraft.
func (v *Validator) AssignFlight(ctx context.Context, lk Lookup, req AssignFlightRequest) (FlightPlan, error) {
	s := &assignState{lk: lk, req: req, now: v.now(), loc: v.loc}
	err := run(ctx, s,
		assignRequired,
		assignTimes,
		assignRoute,
		assignTimeOfFlight,
		assignAircraft,
		assignSchedule,
	)
	if err != nil {
		return FlightPlan{}, err
	}
	return s.plan, nil
}

func assignRequired(_ context.Context, s *assignState) error {
	return requireFields(
		field{"flight_number", s.req.FlightNumber},
		field{"airplane_id", s.req.AirplaneID},
		field{"departure_id", s.req.DepartureID},
		field{"arrival_id", s.req.ArrivalID},
		field{"departure_time", s.req.DepartureTime},
		field{"arrival_time", s.req.ArrivalTime},
	)
}

func assignTimes(_ context.Context, s *assignState) error {
	dep, err := time.ParseInLocation(DateTimeLayout, s.req.DepartureTime.String(), s.loc)
	if err != nil {
		return InvalidDatetimeFormat(dateTimeFormatHint)
	}
	arr, err := time.ParseInLocation(DateTimeLayout, s.req.ArrivalTime.String(), s.loc)
	if err != nil {
		return InvalidDatetimeFormat(dateTimeFormatHint)
	}

	s.plan.FlightNumber = s.req.FlightNumber.String()
	s.plan.DepartureTime = dep
	s.plan.ArrivalTime = arr
	return nil
}

func assignRoute(ctx context.Context, s *assignState) error {
	if err := checkRoute(ctx, s.lk, s.req.DepartureID.String(), s.req.ArrivalID.String()); err != nil {
		return err
	}
	s.plan.DepartureID = s.req.DepartureID.String()
	s.plan.ArrivalID = s.req.ArrivalID.String()
	return nil
}

// assignTimeOfFlight rejects a flight only when it lands before it departs
// and both instants are still in the future. Inverted intervals in the past
// and forward intervals in the past are accepted.
func assignTimeOfFlight(_ context.Context, s *assignState) error {
	dep, arr := s.plan.DepartureTime, s.plan.ArrivalTime
	if dep.After(arr) && dep.After(s.now) && arr.After(s.now) {
		return newFailure(CodeInvalidTimeOfFlight)
	}
	return nil
}

func assignAircraft(ctx context.Context, s *assignState) error {
	id, err := s.req.AirplaneID.Int64()
	if err != nil {
		return newFailure(CodeAircraftNotFound, s.req.AirplaneID.String())
	}

	airplane, err := s.lk.Airplane(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return newFailure(CodeAircraftNotFound, s.req.AirplaneID.String())
	}
	if err != nil {
		return err
	}

	s.plan.AirplaneID = airplane.ID
	s.plan.Capacity = airplane.Capacity
	return nil
}

func assignSchedule(ctx context.Context, s *assignState) error {
	from, to := s.plan.DepartureTime, s.plan.ArrivalTime
	if from.After(to) {
		from, to = to, from
	}

	clashing, err := s.lk.AirplaneFlights(ctx, s.plan.AirplaneID, from, to)
	if err != nil {
		return err
	}
	if len(clashing) == 0 {
		return nil
	}

	numbers := make([]string, 0, len(clashing))
	for _, f := range clashing {
		numbers = append(numbers, f.Number)
	}
	return AircraftBusy(s.plan.AirplaneID, numbers)
}

type searchState struct {
	lk    Lookup
	req   SearchFlightRequest
	today time.Time
	loc   *time.Location
	query SearchQuery
}

// SearchFlight validates a route + date search.
func (v *Validator) SearchFlight(ctx context.Context, lk Lookup, req SearchFlightRequest) (SearchQuery, error) {
	now := v.now().In(v.loc)
	s := &searchState{
		lk:    lk,
		req:   req,
		today: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.loc),
		loc:   v.loc,
	}
	err := run(ctx, s,
		searchRequired,
		searchRoute,
		searchDate,
	)
	if err != nil {
		return SearchQuery{}, err
	}
	return s.query, nil
}

func searchRequired(_ context.Context, s *searchState) error {
	return requireFields(
		field{"date", s.req.Date},
		field{"departure_id", s.req.DepartureID},
		field{"arrival_id", s.req.ArrivalID},
	)
}

func searchRoute(ctx context.Context, s *searchState) error {
	if err := checkRoute(ctx, s.lk, s.req.DepartureID.String(), s.req.ArrivalID.String()); err != nil {
		return err
	}
	s.query.DepartureID = s.req.DepartureID.String()
	s.query.ArrivalID = s.req.ArrivalID.String()
	return nil
}

func searchDate(_ context.Context, s *searchState) error {
	date, err := time.ParseInLocation(DateLayout, s.req.Date.String(), s.loc)
	if err != nil {
		return InvalidDatetimeFormat(dateFormatHint)
	}
	if date.Before(s.today) {
		return newFailure(CodeInvalidDate)
	}
	s.query.Date = date
	return nil
}
