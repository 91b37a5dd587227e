// cmd/movieservice/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpAPI "github.com/MikeG23/movies/internal/api"
	"github.com/MikeG23/movies/internal/config"
	grpcServer "github.com/MikeG23/movies/internal/grpc"
	"github.com/MikeG23/movies/internal/store"
)

// connectToDB creates the MongoDB client and checks that the server answers.
// An unreachable server is only logged: the driver keeps reconnecting in
// the background and requests fail at the store until it comes back.
func connectToDB(cfg config.MongoConfig, logger *slog.Logger) (*mongo.Client, error) {
	logger.Info("Attempting to connect to MongoDB", slog.String("database", cfg.Database), slog.String("collection", cfg.Collection))

	client, err := mongo.Connect(store.NewClientOptions(cfg.URI, cfg.ConnectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error("Failed to reach MongoDB, serving anyway", slog.String("error", err.Error()))
		return client, nil
	}

	logger.Info("Successfully connected to MongoDB")
	return client, nil
}

// newHTTPServer builds the gateway server. Requests have no deadline of
// their own; only slow headers and idle keep-alive connections are cut off.
func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// startGRPCServer serves the health service on cfg.GRPCPort. It returns nil
// when the port cannot be bound; the HTTP gateway runs without it.
func startGRPCServer(cfg *config.Config, pinger grpcServer.Pinger, logger *slog.Logger) *grpc.Server {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		logger.Error("Failed to listen for gRPC, continuing without health service", slog.String("port", cfg.GRPCPort), slog.String("error", err.Error()))
		return nil
	}

	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, grpcServer.NewServer(pinger, logger))
	if !cfg.IsProduction() {
		reflection.Register(srv)
	}

	go func() {
		logger.Info("MovieService gRPC server starting", slog.String("port", cfg.GRPCPort))
		if err := srv.Serve(lis); err != nil {
			logger.Error("MovieService gRPC server Serve() failed", slog.String("error", err.Error()))
		}
	}()
	return srv
}

func main() {
	os.Exit(run())
}

// run wires the service and blocks until it is told to stop. Deferred
// cleanup runs before the exit code is handed back to main.
func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	validate := validator.New()

	client, err := connectToDB(cfg.Mongo, logger)
	if err != nil {
		logger.Error("MovieService failed to initialize database client", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		logger.Info("Disconnecting MongoDB client...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("Failed to disconnect MongoDB client", slog.String("error", err.Error()))
		}
	}()

	movieStorage, err := store.NewMongoMovieStore(client, cfg.Mongo.Database, cfg.Mongo.Collection, logger)
	if err != nil {
		logger.Error("Failed to initialize MongoDB movie store", slog.String("error", err.Error()))
		return 1
	}

	// --- gRPC health server ---
	var grpcSrv *grpc.Server
	if cfg.GRPCPort != "" {
		grpcSrv = startGRPCServer(cfg, movieStorage, logger)
	}

	// --- HTTP server ---
	movieAPIHandler := httpAPI.NewMovieHandler(movieStorage, logger, validate)
	httpSrv := newHTTPServer(":"+cfg.Port, httpAPI.NewRouter(movieAPIHandler))

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Servidor escuchando", slog.String("url", "http://localhost:"+cfg.Port), slog.String("env", cfg.Env))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-quit:
		logger.Info("Cerrando servidor...", slog.String("signal", sig.String()))
	case err := <-serveErr:
		logger.Error("MovieService HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
		exitCode = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("MovieService HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("Servidor detenido")
	}

	if grpcSrv != nil {
		grpcSrv.GracefulStop()
		logger.Info("MovieService gRPC server gracefully stopped.")
	}

	return exitCode
}
