// cmd/healthcheck/main.go
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/MikeG23/movies/internal/config"
	grpcServer "github.com/MikeG23/movies/internal/grpc"
)

// healthcheck exits 0 when the movie service reports SERVING over gRPC.
// It is meant for container HEALTHCHECK commands.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	addr := flag.String("addr", "localhost:"+cfg.GRPCPort, "gRPC address of the movie service")
	service := flag.String("service", grpcServer.ServiceName, "service name to check")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	client, err := grpcServer.NewHealthClient(*addr, logger)
	if err != nil {
		os.Exit(1)
	}
	defer client.Close()

	ok, err := client.Check(context.Background(), *service)
	if err != nil || !ok {
		logger.Error("MovieService is not serving", slog.String("address", *addr))
		client.Close()
		os.Exit(1)
	}
}
