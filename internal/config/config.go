package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "REVIEWSENSE_"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Storage   StorageConfig   `koanf:"storage"`
	Redis     RedisConfig     `koanf:"redis"`
	Queue     QueueConfig     `koanf:"queue"`
	Aspect    AspectConfig    `koanf:"aspect"`
	Notifier  NotifierConfig  `koanf:"notifier"`
	Ingest    IngestConfig    `koanf:"ingest"`
}

type ServerConfig struct {
	Port string `koanf:"port"`
}

type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
}

type ArtifactsConfig struct {
	Dir        string         `koanf:"dir"`
	Vectorizer ArtifactSource `koanf:"vectorizer"`
	Classifier ArtifactSource `koanf:"classifier"`
	Emoji      ArtifactSource `koanf:"emoji"`
}

// ArtifactSource locates one artifact file. URL is only used when Path does
// not exist yet.
type ArtifactSource struct {
	Path string `koanf:"path"`
	URL  string `koanf:"url"`
}

type StorageConfig struct {
	DSN string `koanf:"dsn"`
}

type RedisConfig struct {
	Addr string        `koanf:"addr"`
	TTL  time.Duration `koanf:"ttl"`
}

type QueueConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
	GroupID string   `koanf:"group_id"`
}

type AspectConfig struct {
	APIKey        string        `koanf:"api_key"`
	Model         string        `koanf:"model"`
	BaseURL       string        `koanf:"base_url"`
	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second"`
}

type NotifierConfig struct {
	TelegramToken   string   `koanf:"telegram_token"`
	TelegramChatIDs []string `koanf:"telegram_chat_ids"`
}

type IngestConfig struct {
	Feeds    []FeedConfig  `koanf:"feeds"`
	Interval time.Duration `koanf:"interval"`
}

// FeedConfig is one review feed and the attraction its items belong to.
type FeedConfig struct {
	URL                string `koanf:"url"`
	Attraction         string `koanf:"attraction"`
	AttractionThaiName string `koanf:"attraction_thai_name"`
	Category           string `koanf:"category"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":               ":8080",
		"log.level":                 "info",
		"log.format":                "text",
		"log.max_size_mb":           100,
		"log.max_backups":           3,
		"artifacts.dir":             "artifacts",
		"artifacts.vectorizer.path": "vectorizer.json",
		"artifacts.classifier.path": "classifier.json",
		"artifacts.emoji.path":      "emoji_mapping.json",
		"redis.ttl":                 "24h",
		"queue.topic":               "reviews",
		"queue.group_id":            "reviewsense",
		"aspect.model":              "google/gemma-3-27b-it",
		"aspect.base_url":           "https://openrouter.ai/api/v1",
		"aspect.timeout":            "20s",
		"aspect.rate_per_second":    2.0,
		"ingest.interval":           "5m",
	}
}

// Load reads defaults, then the YAML file at path, then REVIEWSENSE_*
// environment variables. A .env file in the working directory is applied to
// the environment first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", transformEnv), nil); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// transformEnv maps REVIEWSENSE_ASPECT__API_KEY to aspect.api_key. Comma
// separated values become lists.
func transformEnv(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	key = strings.ReplaceAll(key, "__", ".")

	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, value
}

// Validate checks c and normalises a bare server.port such as "8080" to the
// listen address ":8080".
func (c *Config) Validate() error {
	if c.Server.Port != "" && !strings.Contains(c.Server.Port, ":") {
		c.Server.Port = ":" + c.Server.Port
	}
	_, port, err := net.SplitHostPort(c.Server.Port)
	if err != nil {
		return fmt.Errorf("server.port must be a listen address like \":8080\", got %q", c.Server.Port)
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("server.port must be a positive port number, got %q", c.Server.Port)
	}

	sources := map[string]string{
		"artifacts.vectorizer.path": c.Artifacts.Vectorizer.Path,
		"artifacts.classifier.path": c.Artifacts.Classifier.Path,
		"artifacts.emoji.path":      c.Artifacts.Emoji.Path,
	}
	for name, value := range sources {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	for i, f := range c.Ingest.Feeds {
		if f.URL == "" || f.Category == "" {
			return fmt.Errorf("ingest.feeds[%d]: url and category are required", i)
		}
	}

	if c.Ingest.Interval <= 0 {
		return errors.New("ingest.interval must be positive")
	}

	return nil
}
