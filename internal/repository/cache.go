package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/devevent/internal/model"
	"github.com/redis/go-redis/v9"
)

// EventCache keeps recently fetched events in redis, keyed by slug.
type EventCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventCache returns a cache writing entries with ttl. A nil client or
// a zero ttl disables caching.
func NewEventCache(client *redis.Client, ttl time.Duration) *EventCache {
	return &EventCache{client: client, ttl: ttl}
}

func eventCacheKey(slug string) string {
	return "event:slug:" + slug
}

func (c *EventCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get returns the cached event, or nil without error on a miss.
func (c *EventCache) Get(ctx context.Context, slug string) (*model.Event, error) {
	if !c.enabled() {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, eventCacheKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached event: %w", err)
	}

	var event model.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("failed to decode cached event: %w", err)
	}

	return &event, nil
}

func (c *EventCache) Set(ctx context.Context, event *model.Event) error {
	if !c.enabled() {
		return nil
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event for cache: %w", err)
	}

	if err := c.client.Set(ctx, eventCacheKey(event.Slug), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache event: %w", err)
	}

	return nil
}
