package memorydb

import (
	"context"
	"errors"
	"time"

	"rag-api/cmd/configs"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client redis.UniversalClient
}

func NewRedisClient(ctx context.Context, config *configs.Config) (*RedisClient, error) {
	// Use UniversalClient which works with both standalone and cluster Redis
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        []string{config.MemoryDBRedisURL},
		Username:     config.MemoryDBRedisUsername,
		Password:     config.MemoryDBRedisPassword,
		ReadTimeout:  time.Second * 5,
		WriteTimeout: time.Second * 5,
		PoolSize:     10,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisClient{client: client}, nil
}

func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Enqueue pushes a job id onto the named work queue.
func (r *RedisClient) Enqueue(ctx context.Context, queue, jobID string) error {
	return r.client.LPush(ctx, queue, jobID).Err()
}

// Dequeue blocks up to timeout for the next job id. The boolean is false
// when the wait expired with nothing to hand out.
func (r *RedisClient) Dequeue(ctx context.Context, queue string, timeout time.Duration) (string, bool, error) {
	res, err := r.client.BRPop(ctx, timeout, queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	// BRPOP returns [key, value]
	if len(res) != 2 {
		return "", false, nil
	}
	return res[1], true, nil
}

// QueueLen reports the number of jobs waiting on the named queue.
func (r *RedisClient) QueueLen(ctx context.Context, queue string) (int64, error) {
	return r.client.LLen(ctx, queue).Result()
}
