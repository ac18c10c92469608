package models

import (
	"time"

	"github.com/google/uuid"
)

// Generation is one recorded content generation.
type Generation struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Topic     string    `json:"topic"`
	ItemCount int       `json:"itemCount"`
	IsDemo    bool      `json:"isDemo"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
}

// StoredQuizResult is a completed study quiz as persisted in history.
type StoredQuizResult struct {
	ID         uuid.UUID  `json:"id"`
	SessionID  string     `json:"sessionId"`
	Result     QuizResult `json:"result"`
	RecordedAt time.Time  `json:"recordedAt"`
}
