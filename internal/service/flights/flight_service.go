package flights

import (
	"context"
	"errors"

	"github.com/Domenick1991/airlines/internal/cache"
	"github.com/Domenick1991/airlines/internal/domain"
	"github.com/Domenick1991/airlines/internal/kafka"
	"github.com/Domenick1991/airlines/internal/logger"
	"github.com/Domenick1991/airlines/internal/repository"
	"github.com/Domenick1991/airlines/internal/validation"
)

type FlightUseCase interface {
	AssignFlight(ctx context.Context, req validation.AssignFlightRequest) (*domain.Flight, error)
	SearchFlights(ctx context.Context, req validation.SearchFlightRequest) ([]domain.Flight, error)
}

type SearchCache interface {
	GetSearch(ctx context.Context, key string) (cache.SearchEntry, error)
	SetSearch(ctx context.Context, key string, version int64, flights []domain.Flight) (bool, error)
	Invalidate(ctx context.Context, keys ...string) error
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type FlightService struct {
	store     repository.Store
	validator *validation.Validator
	cache     SearchCache
	producer  Publisher
	topic     string
	log       logger.Logger
}

type Option func(*FlightService)

func WithCache(c SearchCache) Option {
	return func(s *FlightService) {
		s.cache = c
	}
}

// WithPublisher enables flight_assigned events on topic.
func WithPublisher(p Publisher, topic string) Option {
	return func(s *FlightService) {
		s.producer = p
		s.topic = topic
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *FlightService) {
		s.log = l
	}
}

func NewFlightService(store repository.Store, validator *validation.Validator, opts ...Option) *FlightService {
	s := &FlightService{store: store, validator: validator, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssignFlight validates and inserts in one unit of work. The aircraft row
// read by validation stays locked until commit, so two assignments for the
// same aircraft cannot both pass the clash check.
func (s *FlightService) AssignFlight(ctx context.Context, req validation.AssignFlightRequest) (*domain.Flight, error) {
	var flight domain.Flight
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		plan, err := s.validator.AssignFlight(ctx, tx, req)
		if err != nil {
			return err
		}

		flight = plan.Flight()
		if err := tx.InsertFlight(ctx, flight); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return validation.FlightExists(flight.Number)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("flight assigned",
		logger.F("flight_number", flight.Number),
		logger.F("airplane_id", flight.AirplaneID),
	)
	s.invalidate(ctx, flight)

	event := kafka.NewEvent(kafka.EventFlightAssigned, flight.Number)
	event.RemainingSeats = flight.RemainingSeats
	s.publish(ctx, event)
	return &flight, nil
}

// SearchFlights returns a NoRecordsFound failure when nothing matches.
func (s *FlightService) SearchFlights(ctx context.Context, req validation.SearchFlightRequest) ([]domain.Flight, error) {
	q, err := s.validator.SearchFlight(ctx, s.store, req)
	if err != nil {
		return nil, err
	}

	key := cache.SearchKey(q.DepartureID, q.ArrivalID, q.Date)
	fill := false
	var version int64
	if s.cache != nil {
		entry, err := s.cache.GetSearch(ctx, key)
		switch {
		case err != nil:
			s.log.Warn("search cache read failed", logger.F("key", key), logger.F("error", err))
		case entry.Found && len(entry.Flights) > 0:
			return entry.Flights, nil
		default:
			fill, version = true, entry.Version
		}
	}

	flights, err := s.store.SearchFlights(ctx, q.Window())
	if err != nil {
		return nil, err
	}
	if len(flights) == 0 {
		return nil, validation.NoRecordsFound()
	}

	if fill {
		stored, err := s.cache.SetSearch(ctx, key, version, flights)
		if err != nil {
			s.log.Warn("search cache write failed", logger.F("key", key), logger.F("error", err))
		} else if !stored {
			s.log.Debug("search cache fill skipped after invalidation", logger.F("key", key))
		}
	}
	return flights, nil
}

func (s *FlightService) invalidate(ctx context.Context, f domain.Flight) {
	if s.cache == nil {
		return
	}
	key := cache.FlightKey(f, s.validator.Location())
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("search cache invalidation failed", logger.F("key", key), logger.F("error", err))
	}
}

func (s *FlightService) publish(ctx context.Context, event kafka.Event) {
	if s.producer == nil || s.topic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.topic, event.Key(), event); err != nil {
		s.log.Warn("failed to publish event",
			logger.F("type", string(event.Type)),
			logger.F("flight_number", event.FlightNumber),
			logger.F("error", err),
		)
	}
}

var _ FlightUseCase = (*FlightService)(nil)
