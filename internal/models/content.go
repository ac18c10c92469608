package models

import "time"

// Source is a citation attached to generated content.
type Source struct {
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	PublishedDate time.Time `json:"publishedDate"`
	Reliability   float64   `json:"reliability"`
	Domain        string    `json:"domain,omitempty"`
	Snippet       string    `json:"snippet,omitempty"`
	SourceType    string    `json:"sourceType,omitempty"`
	Perspective   string    `json:"perspective,omitempty"`
	DataType      string    `json:"dataType,omitempty"`
	Platform      string    `json:"platform,omitempty"`
	Category      string    `json:"category,omitempty"`
}

type FactCheckResult struct {
	Claim       string   `json:"claim"`
	Status      string   `json:"status"` // "verified" | "disputed" | "unverified"
	Confidence  float64  `json:"confidence"`
	Sources     []Source `json:"sources"`
	Explanation string   `json:"explanation"`
}

type Flashcard struct {
	ID                   string    `json:"id"`
	Question             string    `json:"question"`
	Answer               string    `json:"answer"`
	Difficulty           string    `json:"difficulty"` // "easy" | "medium" | "hard"
	Topic                string    `json:"topic,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	Sources              []Source  `json:"sources"`
	LastUpdated          time.Time `json:"lastUpdated"`
	TrendingnessScore    float64   `json:"trendingnessScore"`
	RelatedCurrentTopics []string  `json:"relatedCurrentTopics"`
	FactCheckStatus      string    `json:"factCheckStatus"` // "verified" | "pending" | "disputed"
	ConfidenceScore      float64   `json:"confidenceScore"`
}

type QuizQuestion struct {
	ID              string   `json:"id"`
	Question        string   `json:"question"`
	Options         []string `json:"options"`
	CorrectAnswer   int      `json:"correctAnswer"`
	Explanation     string   `json:"explanation,omitempty"`
	Sources         []Source `json:"sources"`
	FactCheckStatus string   `json:"factCheckStatus"`
	ConfidenceScore float64  `json:"confidenceScore"`
	RelatedTopics   []string `json:"relatedTopics"`
}

type Quiz struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	Questions         []QuizQuestion `json:"questions"`
	Topic             string         `json:"topic,omitempty"`
	TimeLimit         int            `json:"timeLimit"` // minutes
	CreatedAt         time.Time      `json:"createdAt"`
	Sources           []Source       `json:"sources"`
	LastUpdated       time.Time      `json:"lastUpdated"`
	TrendingnessScore float64        `json:"trendingnessScore"`
	IsCurrentEvents   bool           `json:"isCurrentEvents"`
	ExpertiseLevel    string         `json:"expertiseLevel"` // "beginner" | "intermediate" | "expert"
}

type TrendingTopic struct {
	Topic           string    `json:"topic"`
	Score           float64   `json:"score"`
	Category        string    `json:"category"`
	RelatedKeywords []string  `json:"relatedKeywords"`
	LastUpdated     time.Time `json:"lastUpdated"`
	Sources         []Source  `json:"sources"`
}

// NewsBasedContent pairs a news item with the learning material generated from it.
// GeneratedContent holds []Flashcard or *Quiz depending on the requested type.
type NewsBasedContent struct {
	ID               string      `json:"id"`
	Headline         string      `json:"headline"`
	Summary          string      `json:"summary"`
	Category         string      `json:"category"`
	PublishedDate    time.Time   `json:"publishedDate"`
	Sources          []Source    `json:"sources"`
	GeneratedContent interface{} `json:"generatedContent"`
}

// LearningItem is the flashcard-or-question shape shared by the live feeds.
// Flashcard items carry Answer; question items carry Options and CorrectAnswer.
type LearningItem struct {
	ID                string     `json:"id"`
	Question          string     `json:"question"`
	Answer            string     `json:"answer,omitempty"`
	Options           []string   `json:"options,omitempty"`
	CorrectAnswer     *int       `json:"correctAnswer,omitempty"`
	Explanation       string     `json:"explanation,omitempty"`
	Difficulty        string     `json:"difficulty,omitempty"`
	Topic             string     `json:"topic,omitempty"`
	CreatedAt         *time.Time `json:"createdAt,omitempty"`
	Sources           []Source   `json:"sources"`
	ScientificContext string     `json:"scientificContext,omitempty"`
	SkillContext      string     `json:"skillContext,omitempty"`
	ViralContext      string     `json:"viralContext,omitempty"`
	DataContext       string     `json:"dataContext,omitempty"`
	TrendingnessScore float64    `json:"trendingnessScore,omitempty"`
	FactCheckStatus   string     `json:"factCheckStatus"`
	ConfidenceScore   float64    `json:"confidenceScore"`
	ResearchQuality   string     `json:"researchQuality,omitempty"`
	EducationalValue  string     `json:"educationalValue,omitempty"`
	DataType          string     `json:"dataType,omitempty"`
}

// StudyPreferences tune generation and the learning workspace filters.
type StudyPreferences struct {
	IncludeCurrentEvents  bool     `json:"includeCurrentEvents"`
	SourceRecency         string   `json:"sourceRecency"`  // "day" | "week" | "month" | "any"
	ExpertiseLevel        string   `json:"expertiseLevel"` // "beginner" | "intermediate" | "expert"
	IndustryFocus         []string `json:"industryFocus"`
	FactCheckLevel        string   `json:"factCheckLevel"` // "basic" | "thorough" | "academic"
	AutoRefresh           bool     `json:"autoRefresh"`
	TrendingnessThreshold float64  `json:"trendingnessThreshold"`
}

type GenerateRequest struct {
	Topic                string            `json:"topic"`
	Type                 string            `json:"type"` // "flashcards" | "quiz"
	Count                int               `json:"count"`
	Difficulty           string            `json:"difficulty"`
	Preferences          *StudyPreferences `json:"preferences,omitempty"`
	IncludeCurrentEvents bool              `json:"includeCurrentEvents"`
	FactCheck            bool              `json:"factCheck"`
	IncludeSources       bool              `json:"includeSources"`
	TargetAudience       string            `json:"targetAudience"`   // "student" | "professional" | "researcher"
	ContentFreshness     string            `json:"contentFreshness"` // "latest" | "recent" | "any"
}

// GenerateResult is the payload of a successful generation. Exactly one of
// Flashcards or Quiz is set.
type GenerateResult struct {
	Flashcards        []Flashcard       `json:"-"`
	Quiz              *Quiz             `json:"-"`
	Sources           []Source          `json:"sources"`
	TrendingnessScore float64           `json:"trendingnessScore"`
	FactCheckResults  []FactCheckResult `json:"factCheckResults"`
	RelatedTopics     []string          `json:"relatedTopics"`
	LastUpdated       time.Time         `json:"lastUpdated"`
	ContentFreshness  string            `json:"contentFreshness"`
	IsDemo            bool              `json:"isDemo,omitempty"`
	Provider          string            `json:"-"`
}

// Data returns the flashcards or the quiz, whichever was generated.
func (r *GenerateResult) Data() interface{} {
	if r.Quiz != nil {
		return r.Quiz
	}
	return r.Flashcards
}
