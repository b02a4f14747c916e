package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"mercadito/internal/model"

	"github.com/redis/go-redis/v9"
)

const cotizacionKey = "mercadito:cotizacion:actual"

type RedisCotizacionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCotizacionCache(client *redis.Client, ttl time.Duration) *RedisCotizacionCache {
	return &RedisCotizacionCache{client: client, ttl: ttl}
}

func (c *RedisCotizacionCache) Get(ctx context.Context) (*model.Cotizacion, bool, error) {
	val, err := c.client.Get(ctx, cotizacionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cot model.Cotizacion
	if err := json.Unmarshal(val, &cot); err != nil {
		return nil, false, err
	}
	return &cot, true, nil
}

func (c *RedisCotizacionCache) Set(ctx context.Context, cot *model.Cotizacion) error {
	if cot == nil {
		return nil
	}
	payload, err := json.Marshal(cot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cotizacionKey, payload, c.ttl).Err()
}

func (c *RedisCotizacionCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, cotizacionKey).Err()
}

type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// TryLock uses SET NX with expiry. The lease is never released explicitly;
// it lapses after ttl so a crashed holder cannot block others.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}
