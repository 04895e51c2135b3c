package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/vsinha/surgealloc/pkg/infrastructure/logging"
)

// RedisStreamPublisher appends events to a Redis stream with XADD
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

var _ Publisher = (*RedisStreamPublisher)(nil)

// NewRedisStreamPublisher publishes to stream. A positive maxLen trims the
// stream approximately to that many entries.
func NewRedisStreamPublisher(client *redis.Client, stream string, maxLen int64, logger *zap.Logger) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: logging.OrNop(logger),
	}
}

// Publish writes the event payload as JSON in the "data" field
func (p *RedisStreamPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event.Data())
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type(), err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"event_id":  event.ID(),
			"type":      event.Type(),
			"stream_id": event.StreamID(),
			"data":      string(payload),
			"timestamp": event.Timestamp().Unix(),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to add %s event to stream %s: %w", event.Type(), p.stream, err)
	}

	p.logger.Debug("event published",
		zap.String("stream", p.stream),
		zap.String("message_id", id),
		zap.String("event_type", event.Type()))
	return nil
}

// Close releases the underlying client
func (p *RedisStreamPublisher) Close() error {
	return p.client.Close()
}
