package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"reviewsense/internal/domain"
)

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr string, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Score cache. Keys carry the artifact fingerprint so results computed by a
// previous model version are never returned.

func scoreKey(fingerprint, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "score:" + fingerprint + ":" + hex.EncodeToString(sum[:])
}

// GetScore returns the cached result for text, or nil when there is none.
func (c *Client) GetScore(ctx context.Context, fingerprint, text string) (*domain.ScoreResult, error) {
	data, err := c.rdb.Get(ctx, scoreKey(fingerprint, text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var res domain.ScoreResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SetScore(ctx context.Context, fingerprint, text string, res *domain.ScoreResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, scoreKey(fingerprint, text), data, c.ttl).Err()
}

// Feed item de-duplication

// MarkSeen records id and reports whether it was new.
func (c *Client) MarkSeen(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, "seen:"+id, 1, ttl).Result()
}

// UnmarkSeen forgets id so a later poll treats it as new again.
func (c *Client) UnmarkSeen(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, "seen:"+id).Err()
}
