package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/Domenick1991/airlines/api"
	"github.com/Domenick1991/airlines/config"
	"github.com/Domenick1991/airlines/internal/api/grpcapi"
	"github.com/Domenick1991/airlines/internal/logger"
)

const shutdownTimeout = 5 * time.Second

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	grpcAddr   string
	log        logger.Logger
}

func NewServers(cfg *config.Config, svc api.Services, log logger.Logger) (*Servers, error) {
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}

	router := api.NewRouter(api.RouterConfig{
		Location:  loc,
		RateLimit: cfg.HTTP.RateLimit,
		RateBurst: cfg.HTTP.RateBurst,
		Log:       log,
	}, svc)

	rpc := grpcapi.NewServer(svc.Flights, svc.Bookings, loc)

	return &Servers{
		grpcServer: grpcapi.NewGRPCServer(rpc, log),
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpcAddr: cfg.GRPC.Address,
		log:      log,
	}, nil
}

// Run serves HTTP and gRPC until ctx is cancelled or either server fails,
// then shuts both down.
func (s *Servers) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.grpcAddr)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", s.grpcAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("gRPC server listening", logger.F("address", s.grpcAddr))
		return s.grpcServer.Serve(lis)
	})

	g.Go(func() error {
		s.log.Info("HTTP server listening", logger.F("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.log.Info("servers stopped")
		return nil
	})

	return g.Wait()
}
