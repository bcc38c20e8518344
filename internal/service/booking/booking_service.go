package booking

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

type BookingUseCase interface {
	CreateBooking(ctx context.Context, req validation.CreateBookingRequest) (*domain.Booking, error)
	CancelBooking(ctx context.Context, req validation.CancelBookingRequest) (*domain.Booking, error)
}

// Cache drops search results whose seat counts a booking changed.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	store              repository.Store
	validator          *validation.Validator
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	log                logger.Logger
}

type BookingServiceOption func(*BookingService)

func WithCache(c Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = c
	}
}

func WithProducer(p Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = p
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(l logger.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = l
	}
}

func NewBookingService(store repository.Store, validator *validation.Validator, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{store: store, validator: validator, log: logger.Nop()}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking reserves one seat. Validation reads the flight row under
// lock, and the insert plus the seat decrement commit together or not at all.
func (s *BookingService) CreateBooking(ctx context.Context, req validation.CreateBookingRequest) (*domain.Booking, error) {
	var (
		booking domain.Booking
		flight  domain.Flight
	)
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		plan, err := s.validator.CreateBooking(ctx, tx, req)
		if err != nil {
			return err
		}

		flight = plan.Flight
		booking = domain.Booking{
			PassengerID:  plan.PassengerID,
			FlightNumber: flight.Number,
			Price:        plan.Price,
			PricePaid:    true,
		}
		if err := tx.InsertBooking(ctx, &booking); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return validation.AlreadyBooked(flight.Number, plan.PassengerID)
			}
			return err
		}

		left, err := tx.TakeSeat(ctx, flight.Number)
		if err != nil {
			if errors.Is(err, domain.ErrNoSeats) {
				return validation.NoSeatsRemaining()
			}
			return err
		}
		flight.RemainingSeats = left
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		logger.F("booking_id", booking.ID),
		logger.F("flight_number", flight.Number),
		logger.F("remaining_seats", flight.RemainingSeats),
	)
	s.invalidate(ctx, flight)
	s.publish(ctx, kafka.EventBookingCreated, booking, flight.RemainingSeats)
	return &booking, nil
}

// CancelBooking deletes the booking and gives its seat back, never above the
// aircraft's capacity.
func (s *BookingService) CancelBooking(ctx context.Context, req validation.CancelBookingRequest) (*domain.Booking, error) {
	var (
		booking domain.Booking
		flight  *domain.Flight
	)
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		plan, err := s.validator.CancelBooking(ctx, tx, req)
		if err != nil {
			return err
		}

		booking = plan.Booking
		if err := tx.DeleteBooking(ctx, booking.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return validation.InvalidBooking(req.BookingID.String())
			}
			return err
		}
		if _, err := tx.ReleaseSeat(ctx, booking.FlightNumber); err != nil {
			return err
		}

		flight, err = tx.Flight(ctx, booking.FlightNumber)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("booking cancelled",
		logger.F("booking_id", booking.ID),
		logger.F("flight_number", flight.Number),
		logger.F("remaining_seats", flight.RemainingSeats),
	)
	s.invalidate(ctx, *flight)
	s.publish(ctx, kafka.EventBookingCancelled, booking, flight.RemainingSeats)
	return &booking, nil
}

func (s *BookingService) invalidate(ctx context.Context, f domain.Flight) {
	if s.cache == nil {
		return
	}
	key := cache.FlightKey(f, s.validator.Location())
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("search cache invalidation failed", logger.F("key", key), logger.F("error", err))
	}
}

// publish is best effort: the booking is committed whatever Kafka says.
func (s *BookingService) publish(ctx context.Context, t kafka.EventType, b domain.Booking, remaining int) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.NewEvent(t, b.FlightNumber)
	event.BookingID = b.ID
	event.PassengerID = b.PassengerID
	event.RemainingSeats = remaining

	topics := []string{s.bookingTopic}
	if s.notificationsTopic != "" {
		topics = append(topics, s.notificationsTopic)
	}
	for _, topic := range topics {
		if err := s.producer.Publish(ctx, topic, event.Key(), event); err != nil {
			s.log.Warn("failed to publish event",
				logger.F("type", string(t)),
				logger.F("topic", topic),
				logger.F("booking_id", b.ID),
				logger.F("error", err),
			)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
