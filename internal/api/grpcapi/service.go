package grpcapi

import (
	"context"

	"google.golang.org/grpc"

	"github.com/Domenick1991/airlines/internal/validation"
)

const ServiceName = "airbooking.v1.ReservationService"

type FlightReply struct {
	FlightNumber   string `json:"flight_number"`
	DepartureTime  string `json:"departure_time"`
	ArrivalTime    string `json:"arrival_time"`
	RemainingSeats int    `json:"remaining_seats"`
	AirplaneID     int64  `json:"airplane_id"`
	ArrivalID      string `json:"arrival_id"`
	DepartureID    string `json:"departure_id"`
}

// SearchReply carries Message instead of an error when nothing matched.
type SearchReply struct {
	Flights []FlightReply `json:"flights"`
	Message string        `json:"message,omitempty"`
}

type BookingReply struct {
	ID            int64   `json:"id"`
	PassengerID   int64   `json:"passenger_id"`
	FlightID      string  `json:"flight_id"`
	Price         float64 `json:"price"`
	PricePaid     bool    `json:"price_paid"`
	DateOfBooking string  `json:"date_of_booking"`
}

type CancelReply struct {
	Message string `json:"message"`
}

type ReservationServer interface {
	AssignFlight(ctx context.Context, req *validation.AssignFlightRequest) (*FlightReply, error)
	SearchFlights(ctx context.Context, req *validation.SearchFlightRequest) (*SearchReply, error)
	CreateBooking(ctx context.Context, req *validation.CreateBookingRequest) (*BookingReply, error)
	CancelBooking(ctx context.Context, req *validation.CancelBookingRequest) (*CancelReply, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReservationServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("AssignFlight", ReservationServer.AssignFlight),
		unary("SearchFlights", ReservationServer.SearchFlights),
		unary("CreateBooking", ReservationServer.CreateBooking),
		unary("CancelBooking", ReservationServer.CancelBooking),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "airbooking/v1/reservation",
}

func RegisterReservationServer(s grpc.ServiceRegistrar, srv ReservationServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(ReservationServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ReservationServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ReservationServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Client calls the reservation service over a connection using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AssignFlight(ctx context.Context, in *validation.AssignFlightRequest, opts ...grpc.CallOption) (*FlightReply, error) {
	return invoke[FlightReply](ctx, c, "AssignFlight", in, opts)
}

func (c *Client) SearchFlights(ctx context.Context, in *validation.SearchFlightRequest, opts ...grpc.CallOption) (*SearchReply, error) {
	return invoke[SearchReply](ctx, c, "SearchFlights", in, opts)
}

func (c *Client) CreateBooking(ctx context.Context, in *validation.CreateBookingRequest, opts ...grpc.CallOption) (*BookingReply, error) {
	return invoke[BookingReply](ctx, c, "CreateBooking", in, opts)
}

func (c *Client) CancelBooking(ctx context.Context, in *validation.CancelBookingRequest, opts ...grpc.CallOption) (*CancelReply, error) {
	return invoke[CancelReply](ctx, c, "CancelBooking", in, opts)
}
