package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyforge-backend/internal/models"
)

// HistoryStore records generations and completed quizzes.
type HistoryStore interface {
	RecordGeneration(ctx context.Context, g *models.Generation) error
	SaveQuizResult(ctx context.Context, sessionID string, result *models.QuizResult) error
	ListGenerations(ctx context.Context, limit int) ([]models.Generation, error)
	ListQuizResults(ctx context.Context, limit int) ([]models.StoredQuizResult, error)
	Enabled() bool
}

type HistoryRepo struct {
	pool *pgxpool.Pool
}

func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

func (r *HistoryRepo) Enabled() bool { return true }

func (r *HistoryRepo) RecordGeneration(ctx context.Context, g *models.Generation) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	query := `INSERT INTO generations (id, kind, topic, item_count, is_demo, provider, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query, g.ID, g.Kind, g.Topic, g.ItemCount, g.IsDemo, g.Provider, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

// SaveQuizResult stores one result per study session; repeats are ignored.
func (r *HistoryRepo) SaveQuizResult(ctx context.Context, sessionID string, result *models.QuizResult) error {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	query := `INSERT INTO quiz_results (id, session_id, quiz_id, score, total, correct, time_spent, answers, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (session_id) DO NOTHING`

	_, err = r.pool.Exec(ctx, query,
		uuid.New(), sessionID, result.QuizID, result.Score, result.TotalQuestions,
		result.CorrectAnswers, result.TimeSpent, answers, result.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz result: %w", err)
	}
	return nil
}

func (r *HistoryRepo) ListGenerations(ctx context.Context, limit int) ([]models.Generation, error) {
	query := `SELECT id, kind, topic, item_count, is_demo, provider, created_at
		FROM generations ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	generations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Generation, error) {
		var g models.Generation
		err := row.Scan(&g.ID, &g.Kind, &g.Topic, &g.ItemCount, &g.IsDemo, &g.Provider, &g.CreatedAt)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan generations: %w", err)
	}
	return generations, nil
}

func (r *HistoryRepo) ListQuizResults(ctx context.Context, limit int) ([]models.StoredQuizResult, error) {
	query := `SELECT id, session_id, quiz_id, score, total, correct, time_spent, answers, completed_at, recorded_at
		FROM quiz_results ORDER BY recorded_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz results: %w", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.StoredQuizResult, error) {
		var (
			s       models.StoredQuizResult
			answers []byte
		)
		err := row.Scan(&s.ID, &s.SessionID, &s.Result.QuizID, &s.Result.Score, &s.Result.TotalQuestions,
			&s.Result.CorrectAnswers, &s.Result.TimeSpent, &answers, &s.Result.CompletedAt, &s.RecordedAt)
		if err != nil {
			return s, err
		}
		s.Result.Answers = []models.UserAnswer{}
		if len(answers) > 0 {
			if err := json.Unmarshal(answers, &s.Result.Answers); err != nil {
				return s, err
			}
		}
		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan quiz results: %w", err)
	}
	return results, nil
}

// NoopHistory stands in when no database is configured.
type NoopHistory struct{}

func (NoopHistory) Enabled() bool { return false }

func (NoopHistory) RecordGeneration(context.Context, *models.Generation) error { return nil }

func (NoopHistory) SaveQuizResult(context.Context, string, *models.QuizResult) error { return nil }

func (NoopHistory) ListGenerations(context.Context, int) ([]models.Generation, error) {
	return []models.Generation{}, nil
}

func (NoopHistory) ListQuizResults(context.Context, int) ([]models.StoredQuizResult, error) {
	return []models.StoredQuizResult{}, nil
}
