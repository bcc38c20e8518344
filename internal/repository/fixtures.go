package repository

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Domenick1991/airlines/internal/domain"
)

// Fixtures is reference data for the in-memory store.
type Fixtures struct {
	Airports   []domain.Airport   `yaml:"airports"`
	Airplanes  []domain.Airplane  `yaml:"airplanes"`
	Users      []domain.User      `yaml:"users"`
	Passengers []domain.Passenger `yaml:"passengers"`
	Flights    []domain.Flight    `yaml:"flights"`
}

func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}

	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

func (s *MemoryStore) Seed(f *Fixtures) {
	for _, a := range f.Airports {
		s.AddAirport(a)
	}
	for _, a := range f.Airplanes {
		s.AddAirplane(a)
	}
	for _, u := range f.Users {
		s.AddUser(u)
	}
	for _, p := range f.Passengers {
		s.AddPassenger(p)
	}
	for _, fl := range f.Flights {
		s.AddFlight(fl)
	}
}
