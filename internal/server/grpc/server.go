// Package grpc exposes the standard gRPC health service so orchestrators can
// probe the bank backend without going through HTTP.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported alongside the overall
// ("") status.
const ServiceName = "gophbank.Bank"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type GRPCServer struct {
	address string
	store   Pinger
	health  *health.Server
	logger  logging.Logger

	probeInterval time.Duration
}

func NewGRPCServer(a string, l logging.Logger, store Pinger) *GRPCServer {
	return &GRPCServer{
		address:       a,
		store:         store,
		health:        health.NewServer(),
		logger:        l.With("module", "grpc_server"),
		probeInterval: 15 * time.Second,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.recoveryInterceptor,
		s.loggingInterceptor,
	))

	healthpb.RegisterHealthServer(srv, s.health)

	s.probe(ctx)

	go func() {
		t := time.NewTicker(s.probeInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gPRC server...")
				s.health.Shutdown()
				srv.GracefulStop()
				return
			case <-t.C:
				s.probe(ctx)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}

// probe pings the store and publishes the result for both the overall and
// the named service.
func (s *GRPCServer) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "store ping failed", "error", err.Error())
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
