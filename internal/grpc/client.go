// internal/grpc/client.go
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

const checkTimeout = 3 * time.Second

// HealthClient asks a running movie service whether it can serve.
type HealthClient struct {
	client healthpb.HealthClient
	logger *slog.Logger
	conn   *grpc.ClientConn
}

// NewHealthClient prepares a client for addr, e.g. "localhost:9092".
// The connection is established lazily on the first call.
func NewHealthClient(addr string, logger *slog.Logger, opts ...grpc.DialOption) (*HealthClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		logger.Error("Failed to create MovieService health client", slog.String("address", addr), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create health client for %s: %w", addr, err)
	}

	return &HealthClient{
		client: healthpb.NewHealthClient(conn),
		logger: logger,
		conn:   conn,
	}, nil
}

// Check reports whether service is SERVING. Use ServiceName or "" for the
// server as a whole.
func (c *HealthClient) Check(ctx context.Context, service string) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	res, err := c.client.Check(callCtx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		st, _ := status.FromError(err)
		c.logger.ErrorContext(ctx, "Health.Check gRPC call failed",
			slog.String("service", service),
			slog.String("code", st.Code().String()),
			slog.String("message", st.Message()))
		return false, fmt.Errorf("grpc Health.Check failed for service %q: %w", service, err)
	}

	c.logger.DebugContext(ctx, "Health.Check gRPC call successful", slog.String("service", service), slog.String("status", res.GetStatus().String()))
	return res.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}

func (c *HealthClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
