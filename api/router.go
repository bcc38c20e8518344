package api

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Domenick1991/airlines/internal/logger"
	"github.com/Domenick1991/airlines/internal/service/booking"
	"github.com/Domenick1991/airlines/internal/service/flights"
	"github.com/Domenick1991/airlines/internal/service/users"
)

//go:embed swagger/airlines.swagger.json
var swaggerDoc []byte

type RouterConfig struct {
	Location  *time.Location
	RateLimit float64
	RateBurst int
	Log       logger.Logger
}

type Services struct {
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
	Users    users.UserUseCase
}

// NewRouter wires every HTTP endpoint. A zero RateLimit disables limiting.
func NewRouter(cfg RouterConfig, svc Services) *gin.Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(cfg.Log))
	if cfg.RateLimit > 0 {
		router.Use(RateLimit(NewClientLimiter(cfg.RateLimit, cfg.RateBurst)))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", swaggerDoc)
	})
	router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))))

	NewFlightHandler(svc.Flights, cfg.Location, cfg.Log).Register(router)
	NewBookingHandler(svc.Bookings, cfg.Log).Register(router)
	NewUserHandler(svc.Users, cfg.Log).Register(router)
	return router
}
