package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"studyforge-backend/internal/models"
	"studyforge-backend/internal/services"
)

type stubTrending struct {
	mu         sync.Mutex
	categories []string
	failures   int
	err        error
}

func (s *stubTrending) Refresh(_ context.Context, category string, _ int) (*services.TrendingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, category)
	if s.failures > 0 {
		s.failures--
		return nil, errors.New("upstream unavailable")
	}
	if s.err != nil {
		return nil, s.err
	}
	return &services.TrendingResult{}, nil
}

func (s *stubTrending) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories)
}

type stubLiveData struct {
	mu    sync.Mutex
	types []string
}

func (s *stubLiveData) Refresh(_ context.Context, q models.LiveDataQuery) (*services.LiveDataOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append(s.types, q.DataType)
	return &services.LiveDataOutcome{}, nil
}

func (s *stubLiveData) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.types)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Condition not met before deadline")
}

func newTestPool(queue Queue, trending TrendingRefresher, live LiveDataRefresher) *Pool {
	p := NewPool(queue, trending, live, 2)
	p.popTimeout = 10 * time.Millisecond
	p.backoff = func(int) time.Duration { return time.Millisecond }
	return p
}

func TestMemoryQueuePopTimesOut(t *testing.T) {
	q := NewMemoryQueue(1)
	if _, err := q.Pop(context.Background(), time.Millisecond); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Expected ErrEmpty, got %v", err)
	}

	if err := q.Push(context.Background(), NewJob(models.JobRefreshTrending)); err != nil {
		t.Fatalf("Expected push to succeed, got %v", err)
	}
	if err := q.Push(context.Background(), NewJob(models.JobRefreshTrending)); err == nil {
		t.Fatalf("Expected full queue to reject the second job")
	}
}

func TestPoolProcessesJobs(t *testing.T) {
	queue := NewMemoryQueue(10)
	trending := &stubTrending{}
	live := &stubLiveData{}
	pool := newTestPool(queue, trending, live)
	pool.Start()
	defer pool.Stop()

	job := NewJob(models.JobRefreshTrending)
	job.Category = "science"
	_ = queue.Push(context.Background(), job)

	liveJob := NewJob(models.JobRefreshLiveData)
	liveJob.LiveData = &models.LiveDataQuery{DataType: "crypto"}
	_ = queue.Push(context.Background(), liveJob)

	waitFor(t, func() bool { return trending.calls() == 1 && live.calls() == 1 })
}

func TestPoolRetriesFailedJobs(t *testing.T) {
	queue := NewMemoryQueue(10)
	trending := &stubTrending{failures: 2}
	pool := newTestPool(queue, trending, &stubLiveData{})
	pool.Start()
	defer pool.Stop()

	_ = queue.Push(context.Background(), NewJob(models.JobRefreshTrending))

	// two failures then a success
	waitFor(t, func() bool { return trending.calls() == 3 })
}

func TestPoolGivesUpAfterMaxRetries(t *testing.T) {
	queue := NewMemoryQueue(10)
	trending := &stubTrending{err: errors.New("down")}
	pool := newTestPool(queue, trending, &stubLiveData{})
	pool.Start()

	_ = queue.Push(context.Background(), NewJob(models.JobRefreshTrending))
	waitFor(t, func() bool { return trending.calls() == 3 })

	time.Sleep(50 * time.Millisecond)
	pool.Stop()
	if got := trending.calls(); got != 3 {
		t.Fatalf("Expected 3 attempts, got %d", got)
	}
}

func TestProcessRejectsBadJobs(t *testing.T) {
	pool := newTestPool(NewMemoryQueue(1), &stubTrending{}, &stubLiveData{})

	if err := pool.process(context.Background(), NewJob("unknown")); err == nil {
		t.Fatalf("Expected error for unknown job type")
	}
	if err := pool.process(context.Background(), NewJob(models.JobRefreshLiveData)); err == nil {
		t.Fatalf("Expected error for live data job without query")
	}
}

func TestSchedulerEnqueue(t *testing.T) {
	queue := NewMemoryQueue(10)
	s, err := NewScheduler("*/15 * * * *", queue, []string{"general", "science"})
	if err != nil {
		t.Fatalf("Expected valid schedule, got %v", err)
	}

	if got := s.Enqueue(context.Background()); got != 4 {
		t.Fatalf("Expected 4 jobs queued, got %d", got)
	}

	job, _ := queue.Pop(context.Background(), time.Millisecond)
	if job.Type != models.JobRefreshTrending || job.Category != "general" || job.Limit != warmTrendingLimit {
		t.Fatalf("Unexpected first job: %+v", job)
	}
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	if _, err := NewScheduler("not a schedule", NewMemoryQueue(1), nil); err == nil {
		t.Fatalf("Expected error for invalid cron spec")
	}
}

func TestWarmUp(t *testing.T) {
	trending := &stubTrending{}
	if err := WarmUp(context.Background(), trending, []string{"general", "technology", "science", "health"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := trending.calls(); got != 4 {
		t.Fatalf("Expected 4 refreshes, got %d", got)
	}

	failing := &stubTrending{err: errors.New("down")}
	if err := WarmUp(context.Background(), failing, []string{"general"}); err == nil {
		t.Fatalf("Expected warm-up error to surface")
	}
}
