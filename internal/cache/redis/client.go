package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yogavignesh-engineer/text-to-cad-generator-sub000/pkg/logger"
)

type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// SetPreview caches a parsed preview keyed by the prompt hash. Previews are
// pure functions of the prompt, so identical prompts share one entry.
func (c *Client) SetPreview(ctx context.Context, promptHash string, response interface{}, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal preview: %w", err)
	}

	err = c.client.Set(ctx, fmt.Sprintf("preview:%s", promptHash), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set preview cache: %w", err)
	}

	logger.Debug("Preview cached", zap.String("prompt_hash", promptHash), zap.Duration("ttl", ttl))
	return nil
}

func (c *Client) GetPreview(ctx context.Context, promptHash string, response interface{}) (bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf("preview:%s", promptHash)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get preview cache: %w", err)
	}

	err = json.Unmarshal(data, response)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal preview: %w", err)
	}

	logger.Debug("Preview cache hit", zap.String("prompt_hash", promptHash))
	return true, nil
}

// SetEstimate caches a BOM or cost estimate keyed on geometry, material and
// method hashed together.
func (c *Client) SetEstimate(ctx context.Context, estimateHash string, response interface{}, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("failed to marshal estimate: %w", err)
	}

	err = c.client.Set(ctx, fmt.Sprintf("estimate:%s", estimateHash), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set estimate cache: %w", err)
	}

	logger.Debug("Estimate cached", zap.String("estimate_hash", estimateHash))
	return nil
}

func (c *Client) GetEstimate(ctx context.Context, estimateHash string, response interface{}) (bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf("estimate:%s", estimateHash)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get estimate cache: %w", err)
	}

	err = json.Unmarshal(data, response)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal estimate: %w", err)
	}

	logger.Debug("Estimate cache hit", zap.String("estimate_hash", estimateHash))
	return true, nil
}

// InvalidatePreviews clears all cached previews, used when parser rules change.
func (c *Client) InvalidatePreviews(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "preview:*", 0).Iterator()
	for iter.Next(ctx) {
		err := c.client.Del(ctx, iter.Val()).Err()
		if err != nil {
			logger.Warn("Failed to delete cache key", zap.Error(err))
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}

	logger.Info("Preview cache invalidated")
	return nil
}

func (c *Client) IncrementCounter(ctx context.Context, name string) error {
	return c.client.Incr(ctx, fmt.Sprintf("counter:%s", name)).Err()
}

func (c *Client) GetCounter(ctx context.Context, name string) (int64, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf("counter:%s", name)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
