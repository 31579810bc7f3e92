// Package grpc runs the standard gRPC health service for the files manager.
// Each backend the server depends on is reported as its own service name.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Probe reports whether a backend is reachable.
type Probe interface {
	Ping(ctx context.Context) error
}

type HealthServer struct {
	address  string
	interval time.Duration
	probes   map[string]Probe
	health   *health.Server
	logger   logging.Logger
}

// NewHealthServer builds a server reporting one service per probe, plus the
// overall "" service, which is serving only while every probe succeeds.
func NewHealthServer(address string, interval time.Duration, probes map[string]Probe, l logging.Logger) *HealthServer {
	return &HealthServer{
		address:  address,
		interval: interval,
		probes:   probes,
		health:   health.NewServer(),
		logger:   l.With("module", "grpc_health"),
	}
}

// Check runs every probe once and publishes the results.
func (s *HealthServer) Check(ctx context.Context) bool {
	all := true
	for name, p := range s.probes {
		status := healthpb.HealthCheckResponse_SERVING
		if err := p.Ping(ctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			all = false
			s.logger.Warn(ctx, "probe failed", "service", name, "error", err)
		}
		s.health.SetServingStatus(name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !all {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", overall)
	return all
}

func (s *HealthServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, s.health)

	s.Check(ctx)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info(ctx, "Stopping gRPC health server...")
				s.health.Shutdown()
				srv.GracefulStop()
				return
			case <-ticker.C:
				s.Check(ctx)
			}
		}
	}()

	s.logger.Info(ctx, "Starting gRPC health server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
