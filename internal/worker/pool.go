package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"studyforge-backend/internal/models"
	"studyforge-backend/internal/services"
)

var jobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "studyforge_worker_jobs_total",
	Help: "Refresh jobs processed by type and outcome.",
}, []string{"type", "outcome"})

type TrendingRefresher interface {
	Refresh(ctx context.Context, category string, limit int) (*services.TrendingResult, error)
}

type LiveDataRefresher interface {
	Refresh(ctx context.Context, q models.LiveDataQuery) (*services.LiveDataOutcome, error)
}

// Pool runs refresh jobs that keep the trending and live-data caches warm.
type Pool struct {
	queue       Queue
	trending    TrendingRefresher
	liveData    LiveDataRefresher
	workerCount int
	popTimeout  time.Duration
	jobTimeout  time.Duration
	backoff     func(attempt int) time.Duration
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

func NewPool(queue Queue, trending TrendingRefresher, liveData LiveDataRefresher, workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		queue:       queue,
		trending:    trending,
		liveData:    liveData,
		workerCount: workerCount,
		popTimeout:  5 * time.Second,
		jobTimeout:  2 * time.Minute,
		backoff:     func(attempt int) time.Duration { return time.Duration(1<<uint(attempt)) * time.Second },
		stopChan:    make(chan struct{}),
	}
}

// NewJob builds a job with the default retry budget.
func NewJob(jobType string) *models.Job {
	return &models.Job{ID: uuid.New(), Type: jobType, MaxRetries: 3, CreatedAt: time.Now()}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	log.Printf("Started %d worker goroutines", p.workerCount)
}

// Stop signals the workers and waits for in-flight jobs.
func (p *Pool) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-p.stopChan
		cancel()
	}()

	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		job, err := p.queue.Pop(ctx, p.popTimeout)
		if err != nil {
			if !errors.Is(err, ErrEmpty) && ctx.Err() == nil {
				log.Printf("Worker %d: %v", id, err)
			}
			continue
		}

		locked, err := p.queue.Claim(ctx, job)
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)
		if err := p.process(ctx, job); err != nil {
			p.handleFailure(job, err)
		} else {
			jobsProcessed.WithLabelValues(job.Type, "success").Inc()
		}
		p.queue.Release(ctx, job)
	}
}

func (p *Pool) process(ctx context.Context, job *models.Job) error {
	ctx, cancel := context.WithTimeout(ctx, p.jobTimeout)
	defer cancel()

	switch job.Type {
	case models.JobRefreshTrending:
		_, err := p.trending.Refresh(ctx, job.Category, job.Limit)
		return err
	case models.JobRefreshLiveData:
		if job.LiveData == nil {
			return errors.New("live data job without a query")
		}
		_, err := p.liveData.Refresh(ctx, *job.LiveData)
		return err
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (p *Pool) handleFailure(job *models.Job, err error) {
	job.RetryCount++
	maxRetries := job.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}

	if job.RetryCount >= maxRetries {
		log.Printf("Job %s failed permanently: %v", job.ID, err)
		jobsProcessed.WithLabelValues(job.Type, "failed").Inc()
		return
	}

	log.Printf("Job %s failed (attempt %d): %v, retrying", job.ID, job.RetryCount, err)
	jobsProcessed.WithLabelValues(job.Type, "retry").Inc()
	time.AfterFunc(p.backoff(job.RetryCount), func() {
		if err := p.queue.Push(context.Background(), job); err != nil {
			log.Printf("Job %s could not be requeued: %v", job.ID, err)
		}
	})
}
