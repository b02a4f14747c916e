// Package cache holds the small Redis-backed helpers used by the services:
// the current exchange rate and a best-effort distributed lock. Each has a
// no-op implementation so the service runs without Redis.
package cache

import (
	"context"
	"time"

	"mercadito/internal/model"
)

type CotizacionCache interface {
	Get(ctx context.Context) (*model.Cotizacion, bool, error)
	Set(ctx context.Context, c *model.Cotizacion) error
	Invalidate(ctx context.Context) error
}

// Locker grants a lease on key for ttl. A false result means another holder
// owns it; the caller skips its work instead of waiting.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type NoopCotizacionCache struct{}

func (NoopCotizacionCache) Get(context.Context) (*model.Cotizacion, bool, error) {
	return nil, false, nil
}

func (NoopCotizacionCache) Set(context.Context, *model.Cotizacion) error { return nil }

func (NoopCotizacionCache) Invalidate(context.Context) error { return nil }

// NoopLocker always grants the lease. Fine for a single instance.
type NoopLocker struct{}

func (NoopLocker) TryLock(context.Context, string, time.Duration) (bool, error) { return true, nil }
