package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"reviewsense/internal/bootstrap"
	"reviewsense/internal/config"
	"reviewsense/internal/logging"
	"reviewsense/internal/metrics"
	"reviewsense/internal/queue"
	"reviewsense/internal/worker"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	metricsAddr := flag.String("metrics-addr", ":9090", "address for the /metrics endpoint, empty to disable")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	_, logCloser := logging.Init(cfg.Log)
	defer logCloser.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, deps, err := bootstrap.Service(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer deps.Close()

	consumer, err := queue.NewKafkaConsumer(cfg.Queue.Brokers, cfg.Queue.GroupID, cfg.Queue.Topic)
	if err != nil {
		log.Fatalf("failed to create consumer: %v", err)
	}
	defer consumer.Close()

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(deps.Registry))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	w := worker.NewConsumer(consumer, svc)

	go func() {
		if err := w.Start(ctx); err != nil {
			slog.Error("consumer stopped", "error", err)
		}
	}()

	slog.Info("consumer started", "topic", cfg.Queue.Topic, "group", cfg.Queue.GroupID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cancel()
}
