//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"mercadito/internal/cache"
	"mercadito/internal/infra"
	"mercadito/internal/model"
	"mercadito/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisCotizacionCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewRedisCotizacionCache(newRedis(t), time.Minute)

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	cot := &model.Cotizacion{ID: uuid.New(), Valor: decimal.RequireFromString("1052.5"), VigenteDesde: time.Now().UTC()}
	require.NoError(t, c.Set(ctx, cot))
	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Valor.Equal(cot.Valor))

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisLocker_UnSoloDueño(t *testing.T) {
	ctx := context.Background()
	l := cache.NewRedisLocker(newRedis(t))

	ok, err := l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = l.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := worker.NewRedisQueue(newRedis(t))

	require.NoError(t, q.Push(ctx, "jobs:test", []byte("uno")))
	require.NoError(t, q.Push(ctx, "jobs:test", []byte("dos")))
	n, err := q.Len(ctx, "jobs:test")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, data, err := q.Pop(ctx, time.Second, "jobs:test")
	require.NoError(t, err)
	assert.Equal(t, "uno", string(data))
	_, _, _ = q.Pop(ctx, time.Second, "jobs:test")

	_, _, err = q.Pop(ctx, time.Second, "jobs:test")
	assert.ErrorIs(t, err, worker.ErrEmpty)
}
