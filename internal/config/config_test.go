package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "artifacts", cfg.Artifacts.Dir)
	assert.Equal(t, "vectorizer.json", cfg.Artifacts.Vectorizer.Path)
	assert.Equal(t, "classifier.json", cfg.Artifacts.Classifier.Path)
	assert.Equal(t, "emoji_mapping.json", cfg.Artifacts.Emoji.Path)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, 20*time.Second, cfg.Aspect.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Ingest.Interval)
	assert.InDelta(t, 2.0, cfg.Aspect.RatePerSecond, 1e-9)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":9000"
artifacts:
  dir: /srv/models
  classifier:
    path: sentiment_model.json
    url: https://example.com/model.json
storage:
  dsn: postgres://localhost/reviews
queue:
  brokers: [kafka-1:9092, kafka-2:9092]
  topic: tourist-reviews
ingest:
  interval: 30s
  feeds:
    - url: https://example.com/wat-arun.rss
      attraction: Wat Arun
      attraction_thai_name: วัดอรุณ
      category: Religious Place
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, "/srv/models", cfg.Artifacts.Dir)
	assert.Equal(t, "sentiment_model.json", cfg.Artifacts.Classifier.Path)
	assert.Equal(t, "https://example.com/model.json", cfg.Artifacts.Classifier.URL)
	assert.Equal(t, "vectorizer.json", cfg.Artifacts.Vectorizer.Path, "unset keys keep defaults")
	assert.Equal(t, "postgres://localhost/reviews", cfg.Storage.DSN)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Queue.Brokers)
	assert.Equal(t, "tourist-reviews", cfg.Queue.Topic)
	assert.Equal(t, 30*time.Second, cfg.Ingest.Interval)
	require.Len(t, cfg.Ingest.Feeds, 1)
	assert.Equal(t, "Wat Arun", cfg.Ingest.Feeds[0].Attraction)
	assert.Equal(t, "วัดอรุณ", cfg.Ingest.Feeds[0].AttractionThaiName)
	assert.Equal(t, "Religious Place", cfg.Ingest.Feeds[0].Category)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
aspect:
  api_key: from-file
`)
	t.Setenv("REVIEWSENSE_ASPECT__API_KEY", "from-env")
	t.Setenv("REVIEWSENSE_QUEUE__BROKERS", "a:9092, b:9092")
	t.Setenv("REVIEWSENSE_REDIS__ADDR", "redis:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Aspect.APIKey)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Queue.Brokers)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_BarePortFromEnv(t *testing.T) {
	t.Setenv("REVIEWSENSE_SERVER__PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: ":8080"},
			Artifacts: ArtifactsConfig{
				Vectorizer: ArtifactSource{Path: "v.json"},
				Classifier: ArtifactSource{Path: "c.json"},
				Emoji:      ArtifactSource{Path: "e.json"},
			},
			Ingest: IngestConfig{Interval: time.Minute},
		}
	}

	require.NoError(t, valid().Validate())

	ports := map[string]string{
		"8080":         ":8080",
		":8080":        ":8080",
		"0.0.0.0:8080": "0.0.0.0:8080",
	}
	for in, want := range ports {
		cfg := valid()
		cfg.Server.Port = in
		require.NoError(t, cfg.Validate(), in)
		assert.Equal(t, want, cfg.Server.Port)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = "http" }},
		{"zero port", func(c *Config) { c.Server.Port = ":0" }},
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"port out of range", func(c *Config) { c.Server.Port = "70000" }},
		{"host without port", func(c *Config) { c.Server.Port = "localhost:" }},
		{"missing classifier", func(c *Config) { c.Artifacts.Classifier.Path = "" }},
		{"missing emoji table", func(c *Config) { c.Artifacts.Emoji.Path = "" }},
		{"feed without category", func(c *Config) {
			c.Ingest.Feeds = []FeedConfig{{URL: "https://example.com/feed"}}
		}},
		{"zero interval", func(c *Config) { c.Ingest.Interval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
