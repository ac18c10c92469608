package worker

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"studyforge-backend/internal/models"
)

// Live data kinds refreshed on every warm cycle.
var warmLiveDataTypes = []string{"stocks", "crypto"}

const warmTrendingLimit = 10

// Scheduler enqueues cache-warm jobs on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	queue      Queue
	categories []string
}

func NewScheduler(schedule string, queue Queue, categories []string) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(),
		queue:      queue,
		categories: categories,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.Enqueue(context.Background()) }); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("Cache warm scheduler started (%d categories)", len(s.categories))
}

// Stop halts the schedule and waits for a running enqueue to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Enqueue pushes one refresh job per category and live data kind.
func (s *Scheduler) Enqueue(ctx context.Context) int {
	queued := 0
	for _, category := range s.categories {
		job := NewJob(models.JobRefreshTrending)
		job.Category = category
		job.Limit = warmTrendingLimit
		if err := s.queue.Push(ctx, job); err != nil {
			log.Printf("Failed to enqueue trending refresh for %s: %v", category, err)
			continue
		}
		queued++
	}

	for _, dataType := range warmLiveDataTypes {
		job := NewJob(models.JobRefreshLiveData)
		job.LiveData = &models.LiveDataQuery{DataType: dataType}
		if err := s.queue.Push(ctx, job); err != nil {
			log.Printf("Failed to enqueue live data refresh for %s: %v", dataType, err)
			continue
		}
		queued++
	}
	return queued
}

// WarmUp refreshes every trending category concurrently, at most three at a time.
func WarmUp(ctx context.Context, trending TrendingRefresher, categories []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	for _, category := range categories {
		g.Go(func() error {
			_, err := trending.Refresh(ctx, category, warmTrendingLimit)
			if err != nil {
				log.Printf("Warm-up failed for %s: %v", category, err)
			}
			return err
		})
	}
	return g.Wait()
}
