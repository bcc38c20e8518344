package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/airlines/internal/domain"
	"github.com/Domenick1991/airlines/internal/logger"
	"github.com/Domenick1991/airlines/internal/service/flights"
	"github.com/Domenick1991/airlines/internal/validation"
)

type FlightHandler struct {
	service flights.FlightUseCase
	loc     *time.Location
	log     logger.Logger
}

type flightResponse struct {
	FlightNumber   string `json:"flight_number"`
	DepartureTime  string `json:"departure_time"`
	ArrivalTime    string `json:"arrival_time"`
	RemainingSeats int    `json:"remaining_seats"`
	AirplaneID     int64  `json:"airplane_id"`
	ArrivalID      string `json:"arrival_id"`
	DepartureID    string `json:"departure_id"`
}

func NewFlightHandler(service flights.FlightUseCase, loc *time.Location, log logger.Logger) *FlightHandler {
	return &FlightHandler{service: service, loc: loc, log: log}
}

func (h *FlightHandler) Register(router gin.IRoutes) {
	router.POST("/assign_flight/", h.assign)
	router.POST("/search_flight/", h.search)
}

func (h *FlightHandler) assign(c *gin.Context) {
	var req validation.AssignFlightRequest
	if !bindJSON(c, &req) {
		return
	}

	flight, err := h.service.AssignFlight(c.Request.Context(), req)
	if err != nil {
		sendError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, h.toResponse(*flight))
}

func (h *FlightHandler) search(c *gin.Context) {
	var req validation.SearchFlightRequest
	if !bindJSON(c, &req) {
		return
	}

	found, err := h.service.SearchFlights(c.Request.Context(), req)
	if err != nil {
		sendError(c, h.log, err)
		return
	}

	out := make([]flightResponse, 0, len(found))
	for _, f := range found {
		out = append(out, h.toResponse(f))
	}
	c.JSON(http.StatusOK, out)
}

func (h *FlightHandler) toResponse(f domain.Flight) flightResponse {
	return flightResponse{
		FlightNumber:   f.Number,
		DepartureTime:  f.DepartureTime.In(h.loc).Format(validation.DateTimeLayout),
		ArrivalTime:    f.ArrivalTime.In(h.loc).Format(validation.DateTimeLayout),
		RemainingSeats: f.RemainingSeats,
		AirplaneID:     f.AirplaneID,
		ArrivalID:      f.ArrivalID,
		DepartureID:    f.DepartureID,
	}
}
