package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"studyforge-backend/internal/jsonrepair"
	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/models"
)

// HistoryRecorder persists a summary of every generation. The no-op store
// satisfies it when no database is configured.
type HistoryRecorder interface {
	RecordGeneration(ctx context.Context, g *models.Generation) error
}

// UpstreamError is a generation failure already mapped to the status and
// message the client should see.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string { return e.Message }
func (e *UpstreamError) Unwrap() error { return e.Err }

type GenerateService struct {
	llm      llm.Completer
	provider string
	history  HistoryRecorder
	now      func() time.Time
}

// NewGenerateService wires the generator. A nil completer puts it in demo mode.
func NewGenerateService(completer llm.Completer, provider string, history HistoryRecorder) *GenerateService {
	return &GenerateService{
		llm:      completer,
		provider: provider,
		history:  history,
		now:      time.Now,
	}
}

type generatedSet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Flashcards  []struct {
		Question          string      `json:"question"`
		Answer            string      `json:"answer"`
		Difficulty        string      `json:"difficulty"`
		Sources           []rawSource `json:"sources"`
		FactCheckStatus   string      `json:"factCheckStatus"`
		ConfidenceScore   float64     `json:"confidenceScore"`
		TrendingnessScore float64     `json:"trendingnessScore"`
		RelatedTopics     []string    `json:"relatedTopics"`
	} `json:"flashcards"`
	Questions []struct {
		Question        string      `json:"question"`
		Options         []string    `json:"options"`
		CorrectAnswer   int         `json:"correctAnswer"`
		Explanation     string      `json:"explanation"`
		Sources         []rawSource `json:"sources"`
		FactCheckStatus string      `json:"factCheckStatus"`
		ConfidenceScore float64     `json:"confidenceScore"`
		RelatedTopics   []string    `json:"relatedTopics"`
	} `json:"questions"`
	Sources          []rawSource `json:"sources"`
	FactCheckResults []struct {
		Claim       string      `json:"claim"`
		Status      string      `json:"status"`
		Confidence  float64     `json:"confidence"`
		Sources     []rawSource `json:"sources"`
		Explanation string      `json:"explanation"`
	} `json:"factCheckResults"`
	TrendingnessScore float64  `json:"trendingnessScore"`
	RelatedTopics     []string `json:"relatedTopics"`
}

// Generate produces flashcards or a quiz for req.Topic.
func (s *GenerateService) Generate(ctx context.Context, req models.GenerateRequest) (*models.GenerateResult, error) {
	applyGenerateDefaults(&req)
	if strings.TrimSpace(req.Topic) == "" || req.Type == "" {
		return nil, &ValidationError{Message: "Topic and type are required"}
	}
	if req.Type != "flashcards" && req.Type != "quiz" {
		return nil, &ValidationError{
			Message: "Type must be flashcards or quiz",
			Fields:  map[string]string{"type": "must be flashcards or quiz"},
		}
	}
	req.Count = clamp(req.Count, 1, 50)

	if s.llm == nil {
		log.Printf("No LLM API key configured, returning demo content for %q", req.Topic)
		result := demoContent(req, s.now())
		s.record(ctx, req, result)
		return result, nil
	}

	system := generateSystemPrompt(req)
	user := flashcardPrompt(req)
	if req.Type == "quiz" {
		user = quizPrompt(req)
	}

	resp, err := s.llm.Complete(ctx, llm.Request{
		System:      system,
		User:        user,
		Temperature: 0.7,
		MaxTokens:   6000,
	})
	if err != nil {
		return nil, classifyGenerateError(err)
	}

	var set generatedSet
	if err := jsonrepair.Decode(resp.Content, &set); err != nil {
		log.Printf("Generate: unparseable reply (%d chars): %v", len(resp.Content), err)
		return nil, classifyGenerateError(err)
	}

	result := s.buildResult(req, &set)
	result.Provider = s.provider
	s.record(ctx, req, result)
	return result, nil
}

func applyGenerateDefaults(req *models.GenerateRequest) {
	if req.Count == 0 {
		req.Count = 10
	}
	if req.Difficulty == "" {
		req.Difficulty = "mixed"
	}
	if req.TargetAudience == "" {
		req.TargetAudience = "student"
	}
	if req.ContentFreshness == "" {
		req.ContentFreshness = "recent"
	}
}

func (s *GenerateService) buildResult(req models.GenerateRequest, set *generatedSet) *models.GenerateResult {
	now := s.now()
	ts := now.UnixMilli()
	srcOpts := sourceOptions{reliability: 80}

	result := &models.GenerateResult{
		Sources:           normalizeSources(set.Sources, srcOpts, now),
		TrendingnessScore: set.TrendingnessScore,
		FactCheckResults:  make([]models.FactCheckResult, 0, len(set.FactCheckResults)),
		RelatedTopics:     orEmpty(set.RelatedTopics),
		LastUpdated:       now,
		ContentFreshness:  req.ContentFreshness,
	}
	for _, fc := range set.FactCheckResults {
		result.FactCheckResults = append(result.FactCheckResults, models.FactCheckResult{
			Claim:       fc.Claim,
			Status:      fc.Status,
			Confidence:  fc.Confidence,
			Sources:     normalizeSources(fc.Sources, srcOpts, now),
			Explanation: fc.Explanation,
		})
	}

	if req.Type == "flashcards" {
		cardDifficulty := req.Difficulty
		if cardDifficulty == "mixed" {
			cardDifficulty = "medium"
		}
		cards := make([]models.Flashcard, 0, len(set.Flashcards))
		for i, item := range set.Flashcards {
			related := item.RelatedTopics
			if related == nil {
				related = result.RelatedTopics
			}
			cards = append(cards, models.Flashcard{
				ID:                   fmt.Sprintf("flashcard-%d-%d", ts, i),
				Question:             item.Question,
				Answer:               item.Answer,
				Difficulty:           orDefault(item.Difficulty, cardDifficulty),
				Topic:                req.Topic,
				CreatedAt:            now,
				Sources:              normalizeSources(item.Sources, srcOpts, now),
				LastUpdated:          now,
				TrendingnessScore:    orDefaultNum(item.TrendingnessScore, result.TrendingnessScore),
				RelatedCurrentTopics: related,
				FactCheckStatus:      orDefault(item.FactCheckStatus, "verified"),
				ConfidenceScore:      orDefaultNum(item.ConfidenceScore, 85),
			})
		}
		result.Flashcards = cards
		return result
	}

	quiz := &models.Quiz{
		ID:                fmt.Sprintf("quiz-%d", ts),
		Title:             set.Title,
		Description:       set.Description,
		Questions:         make([]models.QuizQuestion, 0, len(set.Questions)),
		Topic:             req.Topic,
		TimeLimit:         30,
		CreatedAt:         now,
		Sources:           result.Sources,
		LastUpdated:       now,
		TrendingnessScore: result.TrendingnessScore,
		IsCurrentEvents:   req.IncludeCurrentEvents,
		ExpertiseLevel:    expertiseFor(req.TargetAudience),
	}
	for i, q := range set.Questions {
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			ID:              fmt.Sprintf("question-%d-%d", ts, i),
			Question:        q.Question,
			Options:         orEmpty(q.Options),
			CorrectAnswer:   q.CorrectAnswer,
			Explanation:     q.Explanation,
			Sources:         normalizeSources(q.Sources, srcOpts, now),
			FactCheckStatus: orDefault(q.FactCheckStatus, "verified"),
			ConfidenceScore: orDefaultNum(q.ConfidenceScore, 85),
			RelatedTopics:   orEmpty(q.RelatedTopics),
		})
	}
	result.Quiz = quiz
	return result
}

func expertiseFor(audience string) string {
	switch audience {
	case "researcher":
		return "expert"
	case "professional":
		return "intermediate"
	default:
		return "beginner"
	}
}

func (s *GenerateService) record(ctx context.Context, req models.GenerateRequest, result *models.GenerateResult) {
	if s.history == nil {
		return
	}
	count := len(result.Flashcards)
	if result.Quiz != nil {
		count = len(result.Quiz.Questions)
	}
	g := &models.Generation{
		Kind:      req.Type,
		Topic:     req.Topic,
		ItemCount: count,
		IsDemo:    result.IsDemo,
		Provider:  result.Provider,
	}
	if err := s.history.RecordGeneration(ctx, g); err != nil {
		log.Printf("failed to record generation for %q: %v", req.Topic, err)
	}
}

// Status codes and messages the generate route answers with.
const (
	msgInvalidKey    = "Invalid API key. Please check your Perplexity API key configuration."
	msgRateLimited   = "Rate limit exceeded. Please try again in a few moments."
	msgUnavailable   = "AI service temporarily unavailable. Please try again later."
	msgParseFailure  = "Content parsing error. The AI response could not be processed. Please try again."
	msgNetwork       = "Network error. Please check your internet connection and try again."
	msgGenerateError = "Failed to generate content. Please try again."
)

func classifyGenerateError(err error) *UpstreamError {
	var (
		se      *llm.StatusError
		pe      *jsonrepair.ParseError
		netErr  net.Error
		opErr   *net.OpError
		status  = http.StatusInternalServerError
		message = msgGenerateError
	)
	switch {
	case errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized:
		status, message = http.StatusUnauthorized, msgInvalidKey
	case errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests:
		status, message = http.StatusTooManyRequests, msgRateLimited
	case errors.As(err, &se) && se.StatusCode >= 500, errors.Is(err, llm.ErrUnavailable):
		status, message = http.StatusServiceUnavailable, msgUnavailable
	case errors.As(err, &pe):
		status, message = http.StatusBadGateway, msgParseFailure
	case errors.As(err, &opErr), errors.As(err, &netErr):
		status, message = http.StatusServiceUnavailable, msgNetwork
	}
	return &UpstreamError{Status: status, Message: message, Err: err}
}

func generateSystemPrompt(req models.GenerateRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert educational content creator with access to real-time information. ")
	b.WriteString("Generate high-quality, accurate educational content in valid JSON format only.")
	if req.IncludeSources {
		b.WriteString(" Include reliable sources with citations.")
	}
	if req.FactCheck {
		b.WriteString(" Verify all facts and include confidence scores.")
	}
	if req.IncludeCurrentEvents {
		b.WriteString(" Include current events and trending information when relevant.")
	}
	b.WriteString(" Do not include any text outside the JSON response.")
	return b.String()
}

func freshnessClause(req models.GenerateRequest) string {
	var b strings.Builder
	if req.IncludeCurrentEvents {
		b.WriteString(" Include current events, recent developments, and trending information related to this topic.")
	}
	switch req.ContentFreshness {
	case "latest":
		b.WriteString(" Focus on the most recent information and developments from the last week.")
	case "recent":
		b.WriteString(" Include recent information from the last month when relevant.")
	}
	return b.String()
}

const (
	itemSourcesShape = `,
      "sources": [{"url": "https://example.com/article", "title": "Article title", "publishedDate": "2024-01-15T10:00:00Z", "reliability": 90, "snippet": "Brief excerpt"}]`
	itemFactCheckShape = `,
      "factCheckStatus": "verified|pending|disputed",
      "confidenceScore": 85`
	topSourcesShape = `,
  "sources": [{"url": "https://example.com/source", "title": "Source title", "publishedDate": "2024-01-15T10:00:00Z", "reliability": 90, "snippet": "Brief excerpt"}]`
	topFactCheckShape = `,
  "factCheckResults": [{"claim": "Specific claim", "status": "verified|disputed|unverified", "confidence": 90, "sources": [], "explanation": "Why"}]`
	topTrendingShape = `,
  "trendingnessScore": 80,
  "relatedTopics": ["trending topic 1", "trending topic 2"]`
)

func flashcardPrompt(req models.GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create %d educational flashcards about %q with %s difficulty level.", req.Count, req.Topic, req.Difficulty)
	b.WriteString(freshnessClause(req))
	b.WriteString("\n\nReturn a JSON object with this exact structure:\n{\n  \"flashcards\": [\n    {\n")
	b.WriteString(`      "question": "Clear, concise question",
      "answer": "Comprehensive answer with key details",
      "difficulty": "easy|medium|hard"`)
	if req.IncludeSources {
		b.WriteString(itemSourcesShape)
	}
	if req.FactCheck {
		b.WriteString(itemFactCheckShape)
	}
	if req.IncludeCurrentEvents {
		b.WriteString(",\n      \"trendingnessScore\": 75,\n      \"relatedTopics\": [\"related topic 1\", \"related topic 2\"]")
	}
	b.WriteString("\n    }\n  ]")
	writeTopLevelShapes(&b, req)
	b.WriteString("\n}\n\nRequirements:\n")
	fmt.Fprintf(&b, "- Questions should be specific and educational for %s level\n", req.TargetAudience)
	b.WriteString("- Answers should be informative but concise\n- Cover different aspects of the topic\n- Ensure accuracy and educational value")
	writeRequirementClauses(&b, req, "- Include at least 2 reliable sources per flashcard")
	return b.String()
}

func quizPrompt(req models.GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a quiz about %q with %d multiple choice questions of %s difficulty.", req.Topic, req.Count, req.Difficulty)
	b.WriteString(freshnessClause(req))
	b.WriteString("\n\nReturn a JSON object with this exact structure:\n{\n")
	b.WriteString(`  "title": "Quiz title about the topic",
  "description": "Brief description of what the quiz covers",
  "questions": [
    {
      "question": "Question text",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Why this answer is correct"`)
	if req.IncludeSources {
		b.WriteString(itemSourcesShape)
	}
	if req.FactCheck {
		b.WriteString(itemFactCheckShape)
	}
	if req.IncludeCurrentEvents {
		b.WriteString(",\n      \"relatedTopics\": [\"related topic 1\", \"related topic 2\"]")
	}
	b.WriteString("\n    }\n  ]")
	writeTopLevelShapes(&b, req)
	b.WriteString("\n}\n\nRequirements:\n- Each question must have exactly 4 options\n")
	b.WriteString("- correctAnswer is the index (0-3) of the correct option\n- Include clear explanations for each answer\n")
	fmt.Fprintf(&b, "- Questions should test understanding, not just memorization, for %s level\n", req.TargetAudience)
	b.WriteString("- Ensure all information is accurate")
	writeRequirementClauses(&b, req, "- Include reliable sources for each question")
	fmt.Fprintf(&b, "\n\nThe quiz should comprehensively cover the topic %q.", req.Topic)
	return b.String()
}

func writeTopLevelShapes(b *strings.Builder, req models.GenerateRequest) {
	if req.IncludeSources {
		b.WriteString(topSourcesShape)
	}
	if req.FactCheck {
		b.WriteString(topFactCheckShape)
	}
	if req.IncludeCurrentEvents {
		b.WriteString(topTrendingShape)
	}
}

func writeRequirementClauses(b *strings.Builder, req models.GenerateRequest, sourcesLine string) {
	if req.IncludeSources {
		b.WriteString("\n" + sourcesLine + "\n- Sources should be recent and authoritative\n- Reliability score should be 0-100")
	}
	if req.FactCheck {
		b.WriteString("\n- Verify all facts and provide confidence scores\n- Flag any disputed or uncertain information")
	}
	if req.IncludeCurrentEvents {
		b.WriteString("\n- Include trending information and current events\n- Provide trendingness scores (0-100)\n- Connect to related current topics")
	}
}
