package models

import "time"

type CompetitionBoardRequest struct {
	CompetitionType    string `json:"competitionType"`
	Category           string `json:"category"`
	IncludeLeaderboard bool   `json:"includeLeaderboard"`
}

type Competition struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	EndTime       time.Time `json:"endTime"`
	Participants  int       `json:"participants"`
	PrizePool     int       `json:"prizePool"`
	Difficulty    string    `json:"difficulty"`
	QuestionCount int       `json:"questionCount"`
	Category      string    `json:"category"`
	Joined        bool      `json:"joined"`
}

type BoardEntry struct {
	Username string  `json:"username"`
	Level    string  `json:"level"`
	Points   float64 `json:"points"`
	Accuracy float64 `json:"accuracy"`
}

type Achievement struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

type BoardStats struct {
	TotalParticipants int     `json:"totalParticipants"`
	AverageScore      float64 `json:"averageScore"`
	CompletionRate    float64 `json:"completionRate"`
}

type CompetitionBoard struct {
	ActiveCompetitions []Competition `json:"activeCompetitions"`
	Leaderboard        []BoardEntry  `json:"leaderboard"`
	RecentAchievements []Achievement `json:"recentAchievements"`
	Stats              BoardStats    `json:"stats"`
}

type JoinRequest struct {
	Username string `json:"username"`
}

type JoinResponse struct {
	CompetitionID string    `json:"competitionId"`
	ParticipantID string    `json:"participantId"`
	Username      string    `json:"username"`
	Token         string    `json:"token"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

type AnswerSubmission struct {
	QuestionID string `json:"questionId,omitempty"`
	Difficulty string `json:"difficulty"`
	Correct    bool   `json:"correct"`
	RealTime   bool   `json:"realTime"`
}

type Standing struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

type AnswerResult struct {
	Awarded  int      `json:"awarded"`
	Standing Standing `json:"standing"`
}

// ChallengeRequest asks for an LLM-built competition round.
type ChallengeRequest struct {
	CompetitionType  string `json:"competitionType"` // "daily-challenge" | "trending-quiz" | "breaking-news" | "skill-battle" | "knowledge-race"
	Topic            string `json:"topic,omitempty"`
	Difficulty       string `json:"difficulty"` // "easy" | "medium" | "hard" | "mixed"
	Duration         int    `json:"duration"`   // minutes
	ParticipantCount int    `json:"participantCount,omitempty"`
	RealTimeData     bool   `json:"realTimeData"`
}

type ChallengeQuestion struct {
	ID               string   `json:"id"`
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	CorrectAnswer    int      `json:"correctAnswer"`
	Explanation      string   `json:"explanation"`
	Difficulty       string   `json:"difficulty"`
	Points           int      `json:"points"`
	TimeLimit        int      `json:"timeLimit"` // seconds
	Category         string   `json:"category"`
	RealTimeContext  string   `json:"realTimeContext,omitempty"`
	Sources          []Source `json:"sources"`
	BonusInfo        string   `json:"bonusInfo,omitempty"`
	StreakMultiplier float64  `json:"streakMultiplier,omitempty"`
}

type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Rarity      string    `json:"rarity"`
	EarnedAt    time.Time `json:"earnedAt"`
}

type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Score       float64   `json:"score"`
	Accuracy    float64   `json:"accuracy"`
	AverageTime float64   `json:"averageTime"`
	Streak      int       `json:"streak"`
	Badges      []Badge   `json:"badges"`
	LastActive  time.Time `json:"lastActive"`
}

type RealTimeUpdate struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Content       string    `json:"content"`
	Timestamp     time.Time `json:"timestamp"`
	Priority      string    `json:"priority"`
	AffectedUsers []string  `json:"affectedUsers,omitempty"`
}

type EngagementMetrics struct {
	QuestionsAnswered      int     `json:"questionsAnswered"`
	AverageTimePerQuestion float64 `json:"averageTimePerQuestion"`
	DropoffRate            float64 `json:"dropoffRate"`
	ReturnRate             float64 `json:"returnRate"`
	SocialShares           int     `json:"socialShares"`
}

type ChallengeStats struct {
	TotalParticipants     int               `json:"totalParticipants"`
	AverageScore          float64           `json:"averageScore"`
	AverageAccuracy       float64           `json:"averageAccuracy"`
	AverageCompletionTime float64           `json:"averageCompletionTime"`
	MostDifficultQuestion string            `json:"mostDifficultQuestion"`
	EasiestQuestion       string            `json:"easiestQuestion"`
	TrendingTopics        []string          `json:"trendingTopics"`
	EngagementMetrics     EngagementMetrics `json:"engagementMetrics"`
}

type Reward struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
	Criteria    string  `json:"criteria"`
	Rarity      string  `json:"rarity"`
	Icon        string  `json:"icon,omitempty"`
}

type Challenge struct {
	CompetitionID    string              `json:"competitionId"`
	CompetitionType  string              `json:"competitionType"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Questions        []ChallengeQuestion `json:"questions"`
	Leaderboard      []LeaderboardEntry  `json:"leaderboard"`
	RealTimeUpdates  []RealTimeUpdate    `json:"realTimeUpdates"`
	CompetitionStats ChallengeStats      `json:"competitionStats"`
	Rewards          []Reward            `json:"rewards"`
	Sources          []Source            `json:"sources"`
	CreatedAt        time.Time           `json:"createdAt"`
	ExpiresAt        time.Time           `json:"expiresAt"`
	IsActive         bool                `json:"isActive"`
}
