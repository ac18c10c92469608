package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"studyforge-backend/internal/models"
)

// Scoreboard accumulates competition points per participant.
type Scoreboard interface {
	// Claim reserves username in a competition, case-insensitively. It reports
	// false when someone already holds the name.
	Claim(ctx context.Context, competitionID, username string) (bool, error)
	Add(ctx context.Context, competitionID, username string, points int) (models.Standing, error)
	Top(ctx context.Context, competitionID string, n int) ([]models.Standing, error)
}

// LeaderboardPublisher fans a standings change out to live subscribers.
type LeaderboardPublisher interface {
	PublishLeaderboard(ctx context.Context, update models.LeaderboardUpdate) error
}

func leaderboardKey(competitionID string) string {
	return "leaderboard:" + competitionID
}

func participantsKey(competitionID string) string {
	return "participants:" + competitionID
}

// RedisScoreboard keeps one sorted set per competition.
type RedisScoreboard struct {
	client *redis.Client
}

func NewRedisScoreboard(client *redis.Client) *RedisScoreboard {
	return &RedisScoreboard{client: client}
}

func (s *RedisScoreboard) Claim(ctx context.Context, competitionID, username string) (bool, error) {
	added, err := s.client.SAdd(ctx, participantsKey(competitionID), strings.ToLower(username)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to register participant: %w", err)
	}
	return added == 1, nil
}

func (s *RedisScoreboard) Add(ctx context.Context, competitionID, username string, points int) (models.Standing, error) {
	key := leaderboardKey(competitionID)

	var (
		score *redis.FloatCmd
		rank  *redis.IntCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		score = pipe.ZIncrBy(ctx, key, float64(points), username)
		rank = pipe.ZRevRank(ctx, key, username)
		return nil
	})
	if err != nil {
		return models.Standing{}, fmt.Errorf("failed to update leaderboard: %w", err)
	}

	return models.Standing{
		Rank:     int(rank.Val()) + 1,
		Username: username,
		Score:    score.Val(),
	}, nil
}

func (s *RedisScoreboard) Top(ctx context.Context, competitionID string, n int) ([]models.Standing, error) {
	entries, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(competitionID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	standings := make([]models.Standing, 0, len(entries))
	for i, z := range entries {
		username, _ := z.Member.(string)
		standings = append(standings, models.Standing{Rank: i + 1, Username: username, Score: z.Score})
	}
	return standings, nil
}

// MemoryScoreboard is the single-process fallback when Redis is not configured.
type MemoryScoreboard struct {
	mu     sync.Mutex
	scores map[string]map[string]float64
	names  map[string]map[string]bool
}

func NewMemoryScoreboard() *MemoryScoreboard {
	return &MemoryScoreboard{
		scores: make(map[string]map[string]float64),
		names:  make(map[string]map[string]bool),
	}
}

func (s *MemoryScoreboard) Claim(_ context.Context, competitionID, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken, ok := s.names[competitionID]
	if !ok {
		taken = make(map[string]bool)
		s.names[competitionID] = taken
	}
	name := strings.ToLower(username)
	if taken[name] {
		return false, nil
	}
	taken[name] = true
	return true, nil
}

func (s *MemoryScoreboard) Add(_ context.Context, competitionID, username string, points int) (models.Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, ok := s.scores[competitionID]
	if !ok {
		board = make(map[string]float64)
		s.scores[competitionID] = board
	}
	board[username] += float64(points)

	for _, st := range rankScores(board) {
		if st.Username == username {
			return st, nil
		}
	}
	return models.Standing{}, fmt.Errorf("participant %q missing from leaderboard", username)
}

func (s *MemoryScoreboard) Top(_ context.Context, competitionID string, n int) ([]models.Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	standings := rankScores(s.scores[competitionID])
	if len(standings) > n {
		standings = standings[:n]
	}
	return standings, nil
}

// rankScores orders by score descending, then username descending like ZREVRANGE.
func rankScores(board map[string]float64) []models.Standing {
	standings := make([]models.Standing, 0, len(board))
	for username, score := range board {
		standings = append(standings, models.Standing{Username: username, Score: score})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		return standings[i].Username > standings[j].Username
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
