package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mkravets/filehub/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisQueue implements Queue and Consumer over a Redis list: LPUSH on
// enqueue, blocking BRPOP on dequeue. Payloads travel as JSON.
type RedisQueue struct {
	client *redis.Client
	name   string
}

func NewRedisQueue(addr, password, name string) *RedisQueue {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &RedisQueue{client: client, name: name}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job *models.ThumbnailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding job: %w", err)
	}
	if err := q.client.LPush(ctx, q.name, payload).Err(); err != nil {
		return fmt.Errorf("queue error: %w", err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*models.ThumbnailJob, error) {
	res, err := q.client.BRPop(ctx, timeout, q.name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("queue error: %w", err)
	}

	// BRPop returns [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("queue error: unexpected BRPOP reply of %d elements", len(res))
	}

	job := &models.ThumbnailJob{}
	if err := json.Unmarshal([]byte(res[1]), job); err != nil {
		return nil, fmt.Errorf("decoding job: %w", err)
	}
	return job, nil
}

func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}
