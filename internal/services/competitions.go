package services

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/middleware"
	"studyforge-backend/internal/models"
)

const liveLeaderboardSize = 10

type CompetitionService struct {
	llm       llm.Completer
	scores    Scoreboard
	publisher LeaderboardPublisher
	jwt       *middleware.JWTAuth
	now       func() time.Time
	rand      func(n int) int
}

func NewCompetitionService(completer llm.Completer, scores Scoreboard, publisher LeaderboardPublisher, jwt *middleware.JWTAuth) *CompetitionService {
	return &CompetitionService{
		llm:       completer,
		scores:    scores,
		publisher: publisher,
		jwt:       jwt,
		now:       time.Now,
		rand:      rand.IntN,
	}
}

var seededLeaderboard = []models.BoardEntry{
	{Username: "ScienceExplorer", Level: "Expert", Points: 2850, Accuracy: 94},
	{Username: "TechGuru42", Level: "Advanced", Points: 2720, Accuracy: 91},
	{Username: "QuizMaster", Level: "Expert", Points: 2680, Accuracy: 89},
	{Username: "BrainPower", Level: "Intermediate", Points: 2540, Accuracy: 87},
	{Username: "KnowledgeSeeker", Level: "Advanced", Points: 2420, Accuracy: 92},
}

func seededName(username string) bool {
	for _, e := range seededLeaderboard {
		if strings.EqualFold(e.Username, username) {
			return true
		}
	}
	return false
}

// Board returns the competition overview shown on the competitions page.
func (s *CompetitionService) Board(req models.CompetitionBoardRequest) *models.CompetitionBoard {
	now := s.now()
	board := &models.CompetitionBoard{
		ActiveCompetitions: []models.Competition{
			{
				ID:            "weekly-science-2024",
				Title:         "Weekly Science Challenge",
				Description:   "Test your knowledge of recent scientific discoveries",
				EndTime:       now.Add(5 * 24 * time.Hour),
				Participants:  1247,
				PrizePool:     5000,
				Difficulty:    "intermediate",
				QuestionCount: 20,
				Category:      orDefault(req.Category, "science"),
			},
			{
				ID:            "daily-tech-2024",
				Title:         "Daily Tech Quiz",
				Description:   "Stay updated with the latest technology trends",
				EndTime:       now.Add(18 * time.Hour),
				Participants:  892,
				PrizePool:     1000,
				Difficulty:    "beginner",
				QuestionCount: 10,
				Category:      "technology",
				Joined:        true,
			},
		},
		Leaderboard: []models.BoardEntry{},
		RecentAchievements: []models.Achievement{
			{Icon: "🏆", Title: "Quiz Champion", Description: "Won 5 consecutive competitions", Points: 500},
			{Icon: "🔥", Title: "Streak Master", Description: "Maintained 30-day learning streak", Points: 300},
			{Icon: "🎯", Title: "Perfect Score", Description: "Achieved 100% accuracy in quiz", Points: 200},
		},
		Stats: models.BoardStats{TotalParticipants: 15420, AverageScore: 78, CompletionRate: 85},
	}
	if req.IncludeLeaderboard {
		board.Leaderboard = append(board.Leaderboard, seededLeaderboard...)
	}
	return board
}

// Join registers a participant and issues their competition token.
func (s *CompetitionService) Join(ctx context.Context, competitionID string, req models.JoinRequest) (*models.JoinResponse, error) {
	username := strings.TrimSpace(req.Username)
	fields := make(map[string]string)
	if username == "" {
		fields["username"] = "Username is required"
	} else if len(username) > 32 {
		fields["username"] = "Username must be at most 32 characters"
	}
	if strings.TrimSpace(competitionID) == "" {
		fields["competitionId"] = "Competition is required"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Message: "Invalid join request", Fields: fields}
	}

	if seededName(username) {
		return nil, &ConflictError{Message: "Username is already taken in this competition"}
	}
	claimed, err := s.scores.Claim(ctx, competitionID, username)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, &ConflictError{Message: "Username is already taken in this competition"}
	}

	participant := middleware.Participant{ID: uuid.New(), Username: username, CompetitionID: competitionID}
	token, expiresAt, err := s.jwt.GenerateParticipantToken(participant)
	if err != nil {
		return nil, fmt.Errorf("failed to issue participant token: %w", err)
	}

	// Zero-point entry so the participant shows up on the live board.
	if _, err := s.scores.Add(ctx, competitionID, username, 0); err != nil {
		return nil, err
	}

	return &models.JoinResponse{
		CompetitionID: competitionID,
		ParticipantID: participant.ID.String(),
		Username:      username,
		Token:         token,
		ExpiresAt:     expiresAt,
	}, nil
}

// CalculatePoints scores a correct answer: easy 10, medium 20, hard 30, otherwise 20.
// Real-time questions earn a floored 1.5x bonus.
func CalculatePoints(difficulty string, realTime bool) int {
	points := 20
	switch difficulty {
	case "easy":
		points = 10
	case "hard":
		points = 30
	}
	if realTime {
		return points * 3 / 2
	}
	return points
}

// CalculateTimeLimit is the per-question time in seconds.
func CalculateTimeLimit(difficulty string) int {
	switch difficulty {
	case "easy":
		return 30
	case "hard":
		return 60
	default:
		return 45
	}
}

// SubmitAnswer awards points for an answer and publishes the updated standings.
func (s *CompetitionService) SubmitAnswer(ctx context.Context, p *middleware.Participant, competitionID string, sub models.AnswerSubmission) (*models.AnswerResult, error) {
	if p == nil || p.CompetitionID != competitionID {
		return nil, &UnauthorizedError{Message: "Token is not valid for this competition"}
	}

	awarded := 0
	if sub.Correct {
		awarded = CalculatePoints(sub.Difficulty, sub.RealTime)
	}

	standing, err := s.scores.Add(ctx, competitionID, p.Username, awarded)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		top, err := s.scores.Top(ctx, competitionID, liveLeaderboardSize)
		if err != nil {
			log.Printf("failed to read leaderboard for %s: %v", competitionID, err)
		} else {
			update := models.LeaderboardUpdate{
				CompetitionID: competitionID,
				Username:      p.Username,
				Awarded:       awarded,
				Standings:     top,
			}
			if err := s.publisher.PublishLeaderboard(ctx, update); err != nil {
				log.Printf("failed to publish leaderboard for %s: %v", competitionID, err)
			}
		}
	}

	return &models.AnswerResult{Awarded: awarded, Standing: standing}, nil
}

// Leaderboard merges live scores over the seeded board. Live points add to a
// seeded participant's total.
func (s *CompetitionService) Leaderboard(ctx context.Context, competitionID string, limit int) ([]models.Standing, error) {
	limit = clamp(limit, 1, 100)

	live, err := s.scores.Top(ctx, competitionID, 100)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64, len(seededLeaderboard)+len(live))
	for _, e := range seededLeaderboard {
		totals[e.Username] = e.Points
	}
	for _, st := range live {
		totals[st.Username] += st.Score
	}

	merged := rankScores(totals)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

var challengeTypes = map[string]string{
	"daily-challenge": "daily knowledge challenge with current events and trending topics",
	"trending-quiz":   "quiz based on trending topics and viral content",
	"breaking-news":   "real-time quiz about breaking news and current events",
	"skill-battle":    "competitive skill assessment with practical applications",
	"knowledge-race":  "fast-paced knowledge race with time pressure",
}

type challengeReply struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Questions   []struct {
		Question         string      `json:"question"`
		Options          []string    `json:"options"`
		CorrectAnswer    int         `json:"correctAnswer"`
		Explanation      string      `json:"explanation"`
		Difficulty       string      `json:"difficulty"`
		Category         string      `json:"category"`
		RealTimeContext  string      `json:"realTimeContext"`
		BonusInfo        string      `json:"bonusInfo"`
		StreakMultiplier float64     `json:"streakMultiplier"`
		Sources          []rawSource `json:"sources"`
	} `json:"questions"`
	Rewards        []models.Reward `json:"rewards"`
	TrendingTopics []string        `json:"trendingTopics"`
	Sources        []rawSource     `json:"sources"`
}

// Challenge builds a timed competition round with the LLM.
func (s *CompetitionService) Challenge(ctx context.Context, req models.ChallengeRequest) (*models.Challenge, error) {
	req.CompetitionType = orDefault(req.CompetitionType, "daily-challenge")
	if _, ok := challengeTypes[req.CompetitionType]; !ok {
		return nil, &ValidationError{
			Message: "Invalid competition type",
			Fields:  map[string]string{"competitionType": "must be one of daily-challenge, trending-quiz, breaking-news, skill-battle, knowledge-race"},
		}
	}
	req.Difficulty = orDefault(req.Difficulty, "mixed")
	switch req.Duration {
	case 5, 10, 15, 30:
	default:
		req.Duration = 10
	}
	if req.ParticipantCount <= 0 {
		req.ParticipantCount = 5
	}

	var reply challengeReply
	_, err := completeJSON(ctx, s.llm, llm.Request{
		System:      "You are an expert quiz master and educator who designs engaging, fair and fact-checked learning competitions from current events and trending topics. Always include reliable sources.",
		User:        challengePrompt(req),
		Temperature: 0.5,
		MaxTokens:   6000,
	}, &reply)
	if err != nil {
		return nil, fmt.Errorf("competition challenge: %w", err)
	}

	now := s.now()
	id := fmt.Sprintf("competition-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
	category := orDefault(req.Topic, "general")
	srcOpts := sourceOptions{reliability: 90, category: category}

	challenge := &models.Challenge{
		CompetitionID:   id,
		CompetitionType: req.CompetitionType,
		Title:           orDefault(reply.Title, "Live Learning Challenge"),
		Description:     reply.Description,
		Questions:       make([]models.ChallengeQuestion, 0, len(reply.Questions)),
		Leaderboard:     s.initialLeaderboard(req.ParticipantCount, now),
		RealTimeUpdates: realTimeUpdates(req.CompetitionType, now),
		Rewards:         reply.Rewards,
		Sources:         normalizeSources(reply.Sources, srcOpts, now),
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Duration(req.Duration) * time.Minute),
		IsActive:        true,
	}
	if len(challenge.Rewards) == 0 {
		challenge.Rewards = defaultRewards()
	}

	for i, q := range reply.Questions {
		difficulty := orDefault(q.Difficulty, "medium")
		challenge.Questions = append(challenge.Questions, models.ChallengeQuestion{
			ID:               fmt.Sprintf("%s-q%d", id, i+1),
			Question:         q.Question,
			Options:          orEmpty(q.Options),
			CorrectAnswer:    q.CorrectAnswer,
			Explanation:      q.Explanation,
			Difficulty:       difficulty,
			Points:           CalculatePoints(difficulty, req.RealTimeData),
			TimeLimit:        CalculateTimeLimit(difficulty),
			Category:         orDefault(q.Category, category),
			RealTimeContext:  q.RealTimeContext,
			Sources:          normalizeSources(q.Sources, srcOpts, now),
			BonusInfo:        q.BonusInfo,
			StreakMultiplier: q.StreakMultiplier,
		})
	}

	challenge.CompetitionStats = models.ChallengeStats{
		TotalParticipants: len(challenge.Leaderboard),
		TrendingTopics:    orEmpty(reply.TrendingTopics),
	}
	return challenge, nil
}

var sampleCompetitors = []string{"QuizMaster", "NewsNinja", "FactFinder", "TrendTracker", "InfoHunter"}

func (s *CompetitionService) initialLeaderboard(participants int, now time.Time) []models.LeaderboardEntry {
	n := min(participants, len(sampleCompetitors))
	entries := make([]models.LeaderboardEntry, 0, n)
	for i, username := range sampleCompetitors[:n] {
		entries = append(entries, models.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      fmt.Sprintf("user-%d", i+1),
			Username:    username,
			Score:       float64(s.rand(100)),
			Accuracy:    float64(s.rand(40) + 60),
			AverageTime: float64(s.rand(20) + 15),
			Streak:      s.rand(5),
			Badges:      []models.Badge{},
			LastActive:  now,
		})
	}
	return entries
}

func realTimeUpdates(competitionType string, now time.Time) []models.RealTimeUpdate {
	if competitionType != "breaking-news" {
		return []models.RealTimeUpdate{}
	}
	return []models.RealTimeUpdate{
		{ID: "update-1", Type: "new-question", Content: "New breaking news question added!", Timestamp: now, Priority: "high"},
		{ID: "update-2", Type: "bonus-round", Content: "Bonus round activated - double points for next 2 minutes!", Timestamp: now, Priority: "urgent"},
	}
}

func defaultRewards() []models.Reward {
	return []models.Reward{
		{Type: "badge", Name: "Speed Demon", Description: "Answer 5 questions in under 20 seconds each", Value: 50, Criteria: "Fast answering", Rarity: "rare", Icon: "speed-icon"},
		{Type: "achievement", Name: "Perfect Score", Description: "Get 100% accuracy in a competition", Value: 100, Criteria: "Perfect accuracy", Rarity: "epic", Icon: "perfect-icon"},
		{Type: "streak-bonus", Name: "Hot Streak", Description: "Answer 3 questions correctly in a row", Value: 25, Criteria: "3 correct answers in a row", Rarity: "common", Icon: "streak-icon"},
	}
}

func challengePrompt(req models.ChallengeRequest) string {
	topic := " covering diverse current topics"
	if req.Topic != "" {
		topic = " focused on " + req.Topic
	}
	freshness := "Use recent information and current topics."
	realTime := ""
	requirement := "Use recent, relevant information"
	if req.RealTimeData {
		freshness = "Use the most current real-time information, breaking news, and trending topics available."
		realTime = "\n      \"realTimeContext\": \"Current real-time context and relevance\","
		requirement = "Incorporate real-time data and breaking news"
	}
	difficulty := req.Difficulty + " difficulty"
	if req.Difficulty == "mixed" {
		difficulty = "mixed difficulty levels"
	}

	return fmt.Sprintf(`Create a %s%s for a %d-minute competition.

%s

Generate 10-15 questions with %s. Each question needs educational value, competitive elements, reliable sources and an engaging explanation with bonus information.

Return a JSON object with this structure:
{
  "competitionType": "%s",
  "title": "Engaging competition title",
  "description": "Competition description and rules",
  "questions": [
    {
      "question": "Question text incorporating current information",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Detailed explanation with educational value",
      "difficulty": "easy|medium|hard",
      "category": "Question category",%s
      "bonusInfo": "Additional interesting facts or context",
      "streakMultiplier": 1.5,
      "sources": [{"url": "https://example.com", "title": "Source title", "publishedDate": "2024-01-15T10:00:00Z", "reliability": 90}]
    }
  ],
  "rewards": [
    {"type": "points|badge|achievement|unlock|streak-bonus", "name": "Reward name", "description": "Reward description", "value": 100, "criteria": "How to earn this reward", "rarity": "common|rare|epic|legendary", "icon": "reward-icon"}
  ],
  "trendingTopics": ["topic1", "topic2", "topic3"],
  "sources": [{"url": "https://example.com", "title": "Competition source title", "publishedDate": "2024-01-15T10:00:00Z", "reliability": 90}]
}

Requirements:
- Create engaging, competitive questions with educational value
- Vary difficulty appropriately for competitive balance
- Ensure questions are fact-checkable and accurate
- %s`,
		challengeTypes[req.CompetitionType], topic, req.Duration, freshness, difficulty, req.CompetitionType, realTime, requirement)
}
