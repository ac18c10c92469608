package services

import (
	"context"
	"sync"
	"time"

	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/models"
)

// stubCompleter replays canned replies and records every request.
type stubCompleter struct {
	mu       sync.Mutex
	content  string
	err      error
	requests []llm.Request
}

func (s *stubCompleter) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return llm.Response{}, s.err
	}
	return llm.Response{Content: s.content, Model: "stub"}, nil
}

func (s *stubCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type stubHistory struct {
	recorded []*models.Generation
}

func (s *stubHistory) RecordGeneration(_ context.Context, g *models.Generation) error {
	s.recorded = append(s.recorded, g)
	return nil
}

type stubPublisher struct {
	updates []models.LeaderboardUpdate
}

func (s *stubPublisher) PublishLeaderboard(_ context.Context, u models.LeaderboardUpdate) error {
	s.updates = append(s.updates, u)
	return nil
}

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }
