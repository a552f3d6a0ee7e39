package publisher

import (
	"CricketScoreApi/internal/cricket"
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const StreamKey = "matches.updates"

// StreamPublisher appends every match change to a Redis stream for downstream consumers.
type StreamPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewStreamPublisher trims the stream to roughly maxLen entries; zero keeps everything.
func NewStreamPublisher(client *redis.Client, maxLen int64) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		maxLen: maxLen,
	}
}

func (p *StreamPublisher) PublishMatchUpdate(ctx context.Context, pin, kind string,
	sb cricket.Scoreboard) error {
	return p.client.XAdd(ctx, updateArgs(pin, kind, sb, p.maxLen)).Err()
}

func updateArgs(pin, kind string, sb cricket.Scoreboard, maxLen int64) *redis.XAddArgs {
	data, err := json.Marshal(sb)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}

	return &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: maxLen,
		Approx: maxLen > 0,
		Values: map[string]any{
			"data":     string(data),
			"pin":      pin,
			"kind":     kind,
			"innings":  sb.Innings,
			"complete": sb.Complete,
		},
	}
}
