package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmpty is returned by Pop when no job arrived before the timeout.
var ErrEmpty = errors.New("queue: empty")

// Queue is a set of FIFO lists. Push adds to the head, Pop takes from the
// tail of the first non-empty list among queues.
type Queue interface {
	Push(ctx context.Context, queue string, data []byte) error
	Pop(ctx context.Context, timeout time.Duration, queues ...string) (queue string, data []byte, err error)
	Len(ctx context.Context, queue string) (int64, error)
}

// RedisQueue stores jobs in Redis lists: LPUSH to enqueue, BRPOP to dequeue.
type RedisQueue struct{ rdb *redis.Client }

func NewRedisQueue(rdb *redis.Client) *RedisQueue { return &RedisQueue{rdb: rdb} }

func (q *RedisQueue) Push(ctx context.Context, queue string, data []byte) error {
	return q.rdb.LPush(ctx, queue, data).Err()
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration, queues ...string) (string, []byte, error) {
	res, err := q.rdb.BRPop(ctx, timeout, queues...).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil, ErrEmpty
	}
	if err != nil {
		return "", nil, err
	}
	if len(res) < 2 {
		return "", nil, ErrEmpty
	}
	return res[0], []byte(res[1]), nil
}

func (q *RedisQueue) Len(ctx context.Context, queue string) (int64, error) {
	return q.rdb.LLen(ctx, queue).Result()
}
