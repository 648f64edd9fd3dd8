package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/insightloop/contractmeta/config"
)

const progressTTL = 24 * time.Hour

// ProgressCache mirrors run progress into Redis so status pollers
// never touch Postgres on the hot path.
type ProgressCache struct {
	client *redis.Client
}

// ConnRedis opens and pings a Redis client from config.
func ConnRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DialTimeout: cfg.Timeout,
		Password:    cfg.Password,
		DB:          cfg.DB,
	})
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	if pong != "PONG" {
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return client, nil
}

func NewProgressCache(client *redis.Client) *ProgressCache {
	return &ProgressCache{client: client}
}

func progressKey(fileID string) string {
	return "contractmeta:progress:" + fileID
}

// SetProgress records the latest percentage for a file.
func (p *ProgressCache) SetProgress(ctx context.Context, fileID string, percent int) error {
	return p.client.Set(ctx, progressKey(fileID), percent, progressTTL).Err()
}

// GetProgress returns the cached percentage. Missing keys report found=false.
func (p *ProgressCache) GetProgress(ctx context.Context, fileID string) (int, bool, error) {
	val, err := p.client.Get(ctx, progressKey(fileID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	percent, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("bad progress value %q: %w", val, err)
	}
	return percent, true, nil
}
