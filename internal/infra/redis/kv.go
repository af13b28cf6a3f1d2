package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// KV stores values as plain Redis strings. A zero TTL keeps keys forever.
type KV struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewKV(client *redis.Client, prefix string, ttl time.Duration) *KV {
	return &KV{client: client, prefix: prefix, ttl: ttl}
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := k.client.Get(ctx, k.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	return k.client.Set(ctx, k.prefix+key, value, k.ttl).Err()
}
