package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reviewsense/internal/api"
	"reviewsense/internal/bootstrap"
	"reviewsense/internal/config"
	"reviewsense/internal/logging"
	"reviewsense/internal/metrics"
	"reviewsense/internal/queue"
	"reviewsense/internal/review"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	_, logCloser := logging.Init(cfg.Log)
	defer logCloser.Close()

	broker := api.NewSSEBroker()

	svc, deps, err := bootstrap.Service(context.Background(), cfg, review.WithBroadcaster(broker))
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer deps.Close()

	opts := []api.Option{
		api.WithMetrics(metrics.Handler(deps.Registry)),
		api.WithBroker(broker),
	}
	if len(cfg.Queue.Brokers) > 0 {
		publisher, err := queue.NewKafka(cfg.Queue.Brokers, cfg.Queue.Topic)
		if err != nil {
			log.Fatalf("failed to create queue: %v", err)
		}
		defer publisher.Close()
		opts = append(opts, api.WithPublisher(publisher))
	}

	server := api.NewServer(svc, opts...)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Port)
		serverErr <- server.Start(cfg.Server.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			slog.Error("server stopped", "error", err)
		}
	}

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
}
