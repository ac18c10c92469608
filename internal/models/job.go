package models

import (
	"time"

	"github.com/google/uuid"
)

// Job kinds understood by the refresh worker.
const (
	JobRefreshTrending = "refresh-trending"
	JobRefreshLiveData = "refresh-live-data"
)

type Job struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	Category   string         `json:"category,omitempty"`
	Limit      int            `json:"limit,omitempty"`
	LiveData   *LiveDataQuery `json:"liveData,omitempty"`
	RetryCount int            `json:"retry_count"`
	MaxRetries int            `json:"max_retries"`
	CreatedAt  time.Time      `json:"created_at"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type LeaderboardUpdate struct {
	CompetitionID string     `json:"competitionId"`
	Username      string     `json:"username"`
	Awarded       int        `json:"awarded"`
	Standings     []Standing `json:"standings"`
}

// API error envelope
type ErrorResponse struct {
	Success   bool              `json:"success"`
	Error     string            `json:"error"`
	Code      string            `json:"code,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}
