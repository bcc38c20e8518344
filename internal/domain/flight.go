package domain

import "time"

type Flight struct {
	Number         string    `yaml:"flight_number"`
	AirplaneID     int64     `yaml:"airplane_id"`
	DepartureID    string    `yaml:"departure_id"`
	ArrivalID      string    `yaml:"arrival_id"`
	DepartureTime  time.Time `yaml:"departure_time"`
	ArrivalTime    time.Time `yaml:"arrival_time"`
	RemainingSeats int       `yaml:"remaining_seats"`
}

// Overlaps reports whether the flight's [departure, arrival] interval
// intersects [from, to]. Both bounds are inclusive.
func (f Flight) Overlaps(from, to time.Time) bool {
	start, end := f.DepartureTime, f.ArrivalTime
	if start.After(end) {
		start, end = end, start
	}
	return !start.After(to) && !end.Before(from)
}

// FlightSearch selects bookable flights on a route departing in [From, To).
type FlightSearch struct {
	DepartureID string
	ArrivalID   string
	From        time.Time
	To          time.Time
}

func (q FlightSearch) Matches(f Flight) bool {
	return f.DepartureID == q.DepartureID &&
		f.ArrivalID == q.ArrivalID &&
		!f.DepartureTime.Before(q.From) &&
		f.DepartureTime.Before(q.To) &&
		f.RemainingSeats > 0
}
