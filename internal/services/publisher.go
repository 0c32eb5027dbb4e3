package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"alfredoptarigan/interview-copilot/internal/interview"
)

const transcriptFeedTTL = 24 * time.Hour

// TranscriptPublisher streams transcript entries to live listeners as they are appended.
type TranscriptPublisher interface {
	Publish(ctx context.Context, interviewID uuid.UUID, entries []interview.TranscriptEntry) error
	Close() error
}

// TranscriptFeedKey names both the Redis list and the pub/sub channel of an interview.
func TranscriptFeedKey(interviewID uuid.UUID) string {
	return fmt.Sprintf("interview:%s:transcript", interviewID)
}

type redisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(ctx context.Context, address, password string, db int) (TranscriptPublisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisPublisher{client: client}, nil
}

// Publish implements TranscriptPublisher.
func (p *redisPublisher) Publish(ctx context.Context, interviewID uuid.UUID, entries []interview.TranscriptEntry) error {
	if len(entries) == 0 {
		return nil
	}

	key := TranscriptFeedKey(interviewID)
	pipe := p.client.TxPipeline()
	for _, e := range entries {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to encode transcript entry: %w", err)
		}
		pipe.RPush(ctx, key, payload)
		pipe.Publish(ctx, key, payload)
	}
	pipe.Expire(ctx, key, transcriptFeedTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish transcript: %w", err)
	}
	return nil
}

// Close implements TranscriptPublisher.
func (p *redisPublisher) Close() error {
	return p.client.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when no live feed is configured.
func NewNoopPublisher() TranscriptPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, interviewID uuid.UUID, entries []interview.TranscriptEntry) error {
	return nil
}

func (noopPublisher) Close() error { return nil }
