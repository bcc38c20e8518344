package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Domenick1991/airlines/internal/domain"
	"github.com/Domenick1991/airlines/internal/logger"
	"github.com/Domenick1991/airlines/internal/service/booking"
	"github.com/Domenick1991/airlines/internal/service/flights"
	"github.com/Domenick1991/airlines/internal/validation"
)

// Server implements ReservationServer on top of the flight and booking services.
type Server struct {
	flights  flights.FlightUseCase
	bookings booking.BookingUseCase
	loc      *time.Location
}

func NewServer(flights flights.FlightUseCase, bookings booking.BookingUseCase, loc *time.Location) *Server {
	if loc == nil {
		loc = time.UTC
	}
	return &Server{flights: flights, bookings: bookings, loc: loc}
}

// NewGRPCServer builds a grpc.Server with the reservation service registered.
func NewGRPCServer(srv ReservationServer, log logger.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(loggingInterceptor(log)))
	s := grpc.NewServer(opts...)
	RegisterReservationServer(s, srv)
	return s
}

func (s *Server) AssignFlight(ctx context.Context, req *validation.AssignFlightRequest) (*FlightReply, error) {
	f, err := s.flights.AssignFlight(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	reply := s.toFlightReply(*f)
	return &reply, nil
}

func (s *Server) SearchFlights(ctx context.Context, req *validation.SearchFlightRequest) (*SearchReply, error) {
	found, err := s.flights.SearchFlights(ctx, *req)
	if err != nil {
		if f, ok := validation.AsFailure(err); ok && f.Code == validation.CodeNoRecordsFound {
			return &SearchReply{Flights: []FlightReply{}, Message: f.Message}, nil
		}
		return nil, toStatus(err)
	}

	reply := &SearchReply{Flights: make([]FlightReply, 0, len(found))}
	for _, f := range found {
		reply.Flights = append(reply.Flights, s.toFlightReply(f))
	}
	return reply, nil
}

func (s *Server) CreateBooking(ctx context.Context, req *validation.CreateBookingRequest) (*BookingReply, error) {
	b, err := s.bookings.CreateBooking(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &BookingReply{
		ID:            b.ID,
		PassengerID:   b.PassengerID,
		FlightID:      b.FlightNumber,
		Price:         b.Price,
		PricePaid:     b.PricePaid,
		DateOfBooking: b.DateOfBooking.Format(time.RFC3339),
	}, nil
}

func (s *Server) CancelBooking(ctx context.Context, req *validation.CancelBookingRequest) (*CancelReply, error) {
	b, err := s.bookings.CancelBooking(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &CancelReply{Message: fmt.Sprintf("Successfully cancelled booking id %d", b.ID)}, nil
}

func (s *Server) toFlightReply(f domain.Flight) FlightReply {
	return FlightReply{
		FlightNumber:   f.Number,
		DepartureTime:  f.DepartureTime.In(s.loc).Format(validation.DateTimeLayout),
		ArrivalTime:    f.ArrivalTime.In(s.loc).Format(validation.DateTimeLayout),
		RemainingSeats: f.RemainingSeats,
		AirplaneID:     f.AirplaneID,
		ArrivalID:      f.ArrivalID,
		DepartureID:    f.DepartureID,
	}
}

// toStatus maps validation failures to InvalidArgument carrying an
// ErrorInfo whose reason is the failure code.
func toStatus(err error) error {
	if f, ok := validation.AsFailure(err); ok {
		st := status.New(codes.InvalidArgument, f.Message)
		if detailed, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: string(f.Code), Domain: ServiceName}); derr == nil {
			st = detailed
		}
		return st.Err()
	}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return status.Error(codes.Unavailable, "service temporarily unavailable, retry the request")
	}
	return status.Error(codes.Internal, "internal error")
}

// FailureCode extracts the validation code from a status returned by the service.
func FailureCode(err error) (validation.Code, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return "", false
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ServiceName {
			return validation.Code(info.GetReason()), true
		}
	}
	return "", false
}

func loggingInterceptor(log logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []logger.Field{
			logger.F("method", info.FullMethod),
			logger.F("code", code.String()),
			logger.F("latency_ms", time.Since(start).Milliseconds()),
		}
		if code == codes.Internal || code == codes.Unavailable {
			log.Error("rpc", fields...)
		} else {
			log.Info("rpc", fields...)
		}
		return resp, err
	}
}

var _ ReservationServer = (*Server)(nil)
