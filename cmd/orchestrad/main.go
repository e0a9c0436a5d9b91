// Command orchestrad runs the multi-agent advisory service: query
// orchestration, benchmark execution, analytics, and baseline testing
// over an HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/formul8/orchestra/internal/api"
	"github.com/formul8/orchestra/internal/application"
	"github.com/formul8/orchestra/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	consoleLog := flag.Bool("console", false, "human-readable log output")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		// A missing .env file is the normal case in production.
		_ = err
	}

	cfg, err := application.LoadConfig(*configPath)
	if err != nil {
		bootLogger := logging.New("info")
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(cfg.Server.LogLevel)
	if *consoleLog || cfg.Server.ConsoleLog {
		logger = logging.NewConsole(cfg.Server.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, err := application.NewEngine(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to wire engine")
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error().Err(err).Msg("shutdown cleanup failed")
		}
	}()

	handler := api.NewHandler(engine, logger)
	container := restful.NewContainer()
	container.Filter(api.RecoverPanic(logger))
	container.Filter(api.AccessLog(logger))
	api.RegisterRoutes(container, handler)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", container)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           corsHandler.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
