package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"productapi/internal/config"
	"productapi/internal/logger"
	"productapi/internal/server"
	"productapi/internal/services"
	"productapi/pkg/rabbitmq"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "productapi: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// --- Database ---
	db, err := server.ConnectDatabase(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()

	// --- Event publishing (optional) ---
	publisher, closePublisher := connectPublisher(cfg.RabbitMQURL, log)
	defer closePublisher()

	app := server.New(server.Deps{
		Config:    cfg,
		Log:       log,
		Database:  db,
		Publisher: publisher,
	})

	// --- Start HTTP Server ---
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.AppPort).Msg("starting server")
		serverErr <- app.Listen(cfg.AppPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}

// connectPublisher returns a nil publisher when RabbitMQ is not configured or unreachable;
// products keep working without events.
func connectPublisher(url string, log zerolog.Logger) (services.EventPublisher, func()) {
	if url == "" {
		return nil, func() {}
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: url}, log)
	if err != nil {
		log.Warn().Err(err).Msg("product events disabled")
		return nil, func() {}
	}

	return client, func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("error closing RabbitMQ client")
		}
	}
}
