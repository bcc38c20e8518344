package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/Domenick1991/airlines/api"
	"github.com/Domenick1991/airlines/config"
	"github.com/Domenick1991/airlines/internal/bootstrap"
	"github.com/Domenick1991/airlines/internal/cache"
	"github.com/Domenick1991/airlines/internal/kafka"
	"github.com/Domenick1991/airlines/internal/logger"
	"github.com/Domenick1991/airlines/internal/repository"
	"github.com/Domenick1991/airlines/internal/service/booking"
	"github.com/Domenick1991/airlines/internal/service/flights"
	"github.com/Domenick1991/airlines/internal/service/users"
	"github.com/Domenick1991/airlines/internal/validation"
)

func main() {
	// .env is optional; real env always wins
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog := logger.NewZeroLog(cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, zlog)
	if err != nil {
		zlog.Error("open store", logger.F("error", err))
		os.Exit(1)
	}
	defer closeStore()

	loc, err := cfg.App.Location()
	if err != nil {
		zlog.Error("timezone", logger.F("error", err))
		os.Exit(1)
	}
	validator := validation.New(validation.WithLocation(loc))

	var (
		flightOpts  = []flights.Option{flights.WithLogger(zlog)}
		bookingOpts = []booking.BookingServiceOption{booking.WithLogger(zlog)}
	)

	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.SearchCacheTTLDuration())
		if err := redisCache.Ping(ctx); err != nil {
			zlog.Warn("redis unreachable, search cache degraded", logger.F("error", err))
		}
		flightOpts = append(flightOpts, flights.WithCache(redisCache))
		bookingOpts = append(bookingOpts, booking.WithCache(redisCache))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, zlog)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			zlog.Warn("kafka unreachable, events will be dropped", logger.F("error", err))
		}
		flightOpts = append(flightOpts, flights.WithPublisher(producer, cfg.Kafka.BookingEventsTopic))
		bookingOpts = append(bookingOpts,
			booking.WithProducer(producer, cfg.Kafka.BookingEventsTopic),
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}

	services := api.Services{
		Flights:  flights.NewFlightService(store, validator, flightOpts...),
		Bookings: booking.NewBookingService(store, validator, bookingOpts...),
		Users:    users.NewUserService(store, zlog),
	}

	servers, err := bootstrap.NewServers(cfg, services, zlog)
	if err != nil {
		zlog.Error("build servers", logger.F("error", err))
		os.Exit(1)
	}
	if err := servers.Run(ctx); err != nil {
		zlog.Error("server error", logger.F("error", err))
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config, zlog logger.Logger) (repository.Store, func(), error) {
	if cfg.Database.Driver == "memory" {
		store := repository.NewMemoryStore()
		if cfg.Database.SeedPath != "" {
			fixtures, err := repository.LoadFixtures(cfg.Database.SeedPath)
			if err != nil {
				return nil, nil, err
			}
			store.Seed(fixtures)
		}
		zlog.Info("using in-memory store", logger.F("seed", cfg.Database.SeedPath))
		return store, func() {}, nil
	}

	if cfg.Database.MigrateOnStart {
		if err := repository.Migrate(cfg.Database.URL("pgx5")); err != nil {
			return nil, nil, err
		}
		zlog.Info("migrations applied")
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	store := repository.NewPGStore(pool,
		repository.WithQueryTimeout(cfg.Database.QueryTimeout()),
		repository.WithMaxRetries(cfg.Database.MaxRetries),
	)
	return store, pool.Close, nil
}
