package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"reviewsense/internal/config"
	"reviewsense/internal/ingest"
	"reviewsense/internal/logging"
	"reviewsense/internal/queue"
	"reviewsense/internal/redis"
	"reviewsense/internal/worker"
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

	if len(cfg.Ingest.Feeds) == 0 {
		log.Fatalf("no feeds configured under ingest.feeds")
	}

	publisher, err := queue.NewKafka(cfg.Queue.Brokers, cfg.Queue.Topic)
	if err != nil {
		log.Fatalf("failed to create queue: %v", err)
	}
	defer publisher.Close()

	var seen worker.SeenStore
	if cfg.Redis.Addr != "" {
		rdb, err := redis.New(cfg.Redis.Addr, cfg.Redis.TTL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		seen = rdb
	}

	w := worker.NewImporter(ingest.NewFeed(), publisher, seen, cfg.Ingest)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Start(ctx)

	slog.Info("importer started", "feeds", len(cfg.Ingest.Feeds), "interval", cfg.Ingest.Interval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cancel()
}
