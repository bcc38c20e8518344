package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/airlines/internal/domain"
	"github.com/Domenick1991/airlines/internal/logger"
	"github.com/Domenick1991/airlines/internal/service/booking"
	"github.com/Domenick1991/airlines/internal/validation"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     logger.Logger
}

type bookingResponse struct {
	ID            int64   `json:"id"`
	PassengerID   int64   `json:"passenger_id"`
	FlightID      string  `json:"flight_id"`
	Price         float64 `json:"price"`
	PricePaid     bool    `json:"price_paid"`
	DateOfBooking string  `json:"date_of_booking"`
}

func NewBookingHandler(service booking.BookingUseCase, log logger.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) Register(router gin.IRoutes) {
	router.POST("/passenger_booking/", h.create)
	router.POST("/cancel_passenger_booking/", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req validation.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(*b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req validation.CancelBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), req)
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Successfully cancelled booking id %d", b.ID)})
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		PassengerID:   b.PassengerID,
		FlightID:      b.FlightNumber,
		Price:         b.Price,
		PricePaid:     b.PricePaid,
		DateOfBooking: b.DateOfBooking.Format(time.RFC3339),
	}
}
