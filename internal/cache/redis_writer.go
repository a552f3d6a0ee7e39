package cache

import (
	"CricketScoreApi/internal/cricket"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	LiveMatchesTTL     = 24 * time.Hour
	LiveScoreboardTTL  = 2 * time.Hour
	FinalScoreboardTTL = 6 * time.Hour
)

const liveMatchesKey = "matches:live"

// RedisWriter keeps the latest scoreboard of each match in Redis for readers that do not
// need a live connection.
type RedisWriter struct {
	client *redis.Client
}

func NewRedisWriter(client *redis.Client) *RedisWriter {
	return &RedisWriter{
		client: client,
	}
}

func scoreboardKey(pin string) string {
	return fmt.Sprintf("match:%s:scoreboard", pin)
}

func scoreboardTTL(sb cricket.Scoreboard) time.Duration {
	if sb.Complete {
		return FinalScoreboardTTL
	}
	return LiveScoreboardTTL
}

func (w *RedisWriter) WriteScoreboard(ctx context.Context, pin string, sb cricket.Scoreboard) error {
	data, err := json.Marshal(sb)
	if err != nil {
		return fmt.Errorf("marshaling scoreboard: %w", err)
	}

	return w.client.Set(ctx, scoreboardKey(pin), data, scoreboardTTL(sb)).Err()
}

// ReadScoreboard returns redis.Nil when nothing is cached for pin.
func (w *RedisWriter) ReadScoreboard(ctx context.Context, pin string) (*cricket.Scoreboard, error) {
	data, err := w.client.Get(ctx, scoreboardKey(pin)).Result()
	if err != nil {
		return nil, err
	}

	var sb cricket.Scoreboard
	if err := json.Unmarshal([]byte(data), &sb); err != nil {
		return nil, fmt.Errorf("unmarshaling scoreboard: %w", err)
	}

	return &sb, nil
}

func (w *RedisWriter) DeleteScoreboard(ctx context.Context, pin string) error {
	return w.client.Del(ctx, scoreboardKey(pin)).Err()
}

// WriteLiveMatches replaces the list of pins with an open hub.
func (w *RedisWriter) WriteLiveMatches(ctx context.Context, pins []string) error {
	values := make([]any, len(pins))
	for i, pin := range pins {
		values[i] = pin
	}

	pipe := w.client.Pipeline()
	pipe.Del(ctx, liveMatchesKey)
	if len(values) > 0 {
		pipe.RPush(ctx, liveMatchesKey, values...)
	}
	pipe.Expire(ctx, liveMatchesKey, LiveMatchesTTL)

	_, err := pipe.Exec(ctx)
	return err
}
