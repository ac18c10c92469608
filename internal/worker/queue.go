package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"studyforge-backend/internal/models"
)

const refreshQueue = "queue:refresh"

// ErrEmpty is returned by Pop when no job arrived within the timeout.
var ErrEmpty = errors.New("queue empty")

// Queue carries refresh jobs to the worker pool.
type Queue interface {
	Push(ctx context.Context, job *models.Job) error
	Pop(ctx context.Context, timeout time.Duration) (*models.Job, error)
	// Claim takes the per-job lock so a redelivered job runs once.
	Claim(ctx context.Context, job *models.Job) (bool, error)
	Release(ctx context.Context, job *models.Job)
}

type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Push(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	return q.client.LPush(ctx, refreshQueue, data).Err()
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (*models.Job, error) {
	result, err := q.client.BLPop(ctx, timeout, refreshQueue).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	if len(result) < 2 {
		return nil, ErrEmpty
	}

	var job models.Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}
	return &job, nil
}

func lockKey(job *models.Job) string {
	return "job_lock:" + job.ID.String()
}

func (q *RedisQueue) Claim(ctx context.Context, job *models.Job) (bool, error) {
	return q.client.SetNX(ctx, lockKey(job), "1", 10*time.Minute).Result()
}

func (q *RedisQueue) Release(ctx context.Context, job *models.Job) {
	q.client.Del(ctx, lockKey(job))
}

// MemoryQueue is the in-process queue used without Redis.
type MemoryQueue struct {
	jobs chan *models.Job
}

func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{jobs: make(chan *models.Job, size)}
}

func (q *MemoryQueue) Push(ctx context.Context, job *models.Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("refresh queue full, dropping %s job", job.Type)
	}
}

func (q *MemoryQueue) Pop(ctx context.Context, timeout time.Duration) (*models.Job, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case job := <-q.jobs:
		return job, nil
	case <-timer.C:
		return nil, ErrEmpty
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *MemoryQueue) Claim(context.Context, *models.Job) (bool, error) { return true, nil }

func (q *MemoryQueue) Release(context.Context, *models.Job) {}
