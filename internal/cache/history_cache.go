package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"patternchat/internal/model"
)

// HistoryCache keeps rendered history pages in redis. Keys carry a version
// number that Invalidate bumps with INCR, so one write invalidates every
// cached (page, limit) combination at once; stale entries age out via TTL.
type HistoryCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

type pagePayload struct {
	Messages []model.Message `json:"messages"`
	Total    int64           `json:"total"`
}

const versionKey = "chat:history:version"

func NewHistoryCache(client *redisv9.Client, ttl time.Duration) *HistoryCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &HistoryCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *HistoryCache) GetPage(ctx context.Context, page, limit int) ([]model.Message, int64, bool, error) {
	key, err := c.pageKey(ctx, page, limit)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("redis get history page failed: %w", err)
	}

	var payload pagePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, 0, false, fmt.Errorf("unmarshal cached history page failed: %w", err)
	}
	return payload.Messages, payload.Total, true, nil
}

func (c *HistoryCache) SetPage(ctx context.Context, page, limit int, messages []model.Message, total int64) error {
	key, err := c.pageKey(ctx, page, limit)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(pagePayload{Messages: messages, Total: total})
	if err != nil {
		return fmt.Errorf("marshal history page failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set history page failed: %w", err)
	}
	return nil
}

// Invalidate bumps the version counter, orphaning all cached pages.
func (c *HistoryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("redis bump history version failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) pageKey(ctx context.Context, page, limit int) (string, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && err != redisv9.Nil {
		return "", fmt.Errorf("redis get history version failed: %w", err)
	}
	return fmt.Sprintf("chat:history:v%d:%d:%d", version, page, limit), nil
}
