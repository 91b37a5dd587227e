// internal/grpc/server.go
package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is the name clients use to ask about the movie service in
// particular. The empty name refers to the server as a whole.
const ServiceName = "movies.v1.MovieService"

const pingTimeout = 2 * time.Second

// Pinger reports whether the movie store can be reached.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server implements the standard gRPC health service on top of the
// movie store's reachability.
type Server struct {
	healthpb.UnimplementedHealthServer
	store  Pinger
	logger *slog.Logger
}

func NewServer(store Pinger, logger *slog.Logger) *Server {
	return &Server{
		store:  store,
		logger: logger,
	}
}

// Check implements grpc.health.v1.Health/Check.
func (s *Server) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	service := req.GetService()
	if service != "" && service != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", service)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.store.Ping(pingCtx); err != nil {
		s.logger.WarnContext(ctx, "Health check failed, store unreachable", slog.String("service", service), slog.String("error", err.Error()))
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
