package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the hosted-store backend. Every Store method is a single
// Redis command, so the semantics come straight from the server.
type Redis struct {
	client *redis.Client
}

func OpenRedis(url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL -> %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("client.Ping -> %w", err)
	}

	return &Redis{client: client}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}

		return "", fmt.Errorf("r.client.Get -> %w", err)
	}

	return value, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("r.client.Set -> %w", err)
	}

	return nil
}

func (r *Redis) HGet(ctx context.Context, key, field string) (string, error) {
	value, err := r.client.HGet(ctx, key, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}

		return "", fmt.Errorf("r.client.HGet -> %w", err)
	}

	return value, nil
}

func (r *Redis) HSet(ctx context.Context, key, field, value string) error {
	if err := r.client.HSet(ctx, key, field, value).Err(); err != nil {
		return fmt.Errorf("r.client.HSet -> %w", err)
	}

	return nil
}

func (r *Redis) HDel(ctx context.Context, key string, fields ...string) error {
	if err := r.client.HDel(ctx, key, fields...).Err(); err != nil {
		return fmt.Errorf("r.client.HDel -> %w", err)
	}

	return nil
}

func (r *Redis) HVals(ctx context.Context, key string) ([]string, error) {
	values, err := r.client.HVals(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("r.client.HVals -> %w", err)
	}

	return values, nil
}

func (r *Redis) HLen(ctx context.Context, key string) (int64, error) {
	length, err := r.client.HLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("r.client.HLen -> %w", err)
	}

	return length, nil
}

func (r *Redis) SAdd(ctx context.Context, key, member string) error {
	if err := r.client.SAdd(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("r.client.SAdd -> %w", err)
	}

	return nil
}

func (r *Redis) SRem(ctx context.Context, key, member string) error {
	if err := r.client.SRem(ctx, key, member).Err(); err != nil {
		return fmt.Errorf("r.client.SRem -> %w", err)
	}

	return nil
}

func (r *Redis) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("r.client.SMembers -> %w", err)
	}

	return members, nil
}

func (r *Redis) SCard(ctx context.Context, key string) (int64, error) {
	count, err := r.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("r.client.SCard -> %w", err)
	}

	return count, nil
}
