package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/models"
)

type NewsQuery struct {
	Category  string
	Type      string
	Count     int
	Timeframe string
}

type NewsResult struct {
	Items       []models.NewsBasedContent `json:"data"`
	Category    string                    `json:"category"`
	ContentType string                    `json:"contentType"`
	Timeframe   string                    `json:"timeframe"`
	LastUpdated time.Time                 `json:"lastUpdated"`
}

type newsReply struct {
	NewsItems []struct {
		Headline      string      `json:"headline"`
		Summary       string      `json:"summary"`
		PublishedDate string      `json:"publishedDate"`
		RelatedTopics []string    `json:"relatedTopics"`
		Sources       []rawSource `json:"sources"`
		Flashcards    []struct {
			Question        string      `json:"question"`
			Answer          string      `json:"answer"`
			Difficulty      string      `json:"difficulty"`
			ConfidenceScore float64     `json:"confidenceScore"`
			Sources         []rawSource `json:"sources"`
		} `json:"flashcards"`
		Quiz *struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Questions   []struct {
				Question        string      `json:"question"`
				Options         []string    `json:"options"`
				CorrectAnswer   int         `json:"correctAnswer"`
				Explanation     string      `json:"explanation"`
				ConfidenceScore float64     `json:"confidenceScore"`
				Sources         []rawSource `json:"sources"`
			} `json:"questions"`
		} `json:"quiz"`
	} `json:"newsItems"`
}

type NewsService struct {
	llm llm.Completer
	now func() time.Time
}

func NewNewsService(completer llm.Completer) *NewsService {
	return &NewsService{llm: completer, now: time.Now}
}

func (s *NewsService) NewsLearning(ctx context.Context, q NewsQuery) (*NewsResult, error) {
	q.Category = orDefault(q.Category, "technology")
	q.Type = orDefault(q.Type, "flashcards")
	q.Timeframe = orDefault(q.Timeframe, "today")
	if q.Count == 0 {
		q.Count = 5
	}
	q.Count = clamp(q.Count, 1, 20)

	var reply newsReply
	_, err := completeJSON(ctx, s.llm, llm.Request{
		System:      "You are an educational content creator specializing in current events. Create learning materials from recent news that are educational, accurate, and engaging. Always include reliable sources and ensure factual accuracy.",
		User:        newsPrompt(q),
		Temperature: 0.5,
		MaxTokens:   4000,
	}, &reply)
	if err != nil {
		return nil, fmt.Errorf("news learning: %w", err)
	}

	now := s.now()
	ts := now.UnixMilli()
	srcOpts := sourceOptions{reliability: 85}
	result := &NewsResult{
		Items:       make([]models.NewsBasedContent, 0, len(reply.NewsItems)),
		Category:    q.Category,
		ContentType: q.Type,
		Timeframe:   q.Timeframe,
		LastUpdated: now,
	}

	for i, item := range reply.NewsItems {
		sources := normalizeSources(item.Sources, srcOpts, now)
		related := orEmpty(item.RelatedTopics)
		pick := func(own []rawSource) []models.Source {
			if len(own) > 0 {
				return normalizeSources(own, srcOpts, now)
			}
			return sources
		}

		var generated interface{}
		if q.Type == "flashcards" {
			cards := make([]models.Flashcard, 0, len(item.Flashcards))
			for j, c := range item.Flashcards {
				cards = append(cards, models.Flashcard{
					ID:                   fmt.Sprintf("news-flashcard-%d-%d-%d", ts, i, j),
					Question:             c.Question,
					Answer:               c.Answer,
					Difficulty:           orDefault(c.Difficulty, "medium"),
					Topic:                item.Headline,
					CreatedAt:            now,
					Sources:              pick(c.Sources),
					LastUpdated:          now,
					TrendingnessScore:    90,
					RelatedCurrentTopics: related,
					FactCheckStatus:      "verified",
					ConfidenceScore:      orDefaultNum(c.ConfidenceScore, 90),
				})
			}
			generated = cards
		} else {
			quiz := &models.Quiz{
				ID:                fmt.Sprintf("news-quiz-%d-%d", ts, i),
				Topic:             item.Headline,
				TimeLimit:         20,
				CreatedAt:         now,
				Sources:           sources,
				LastUpdated:       now,
				TrendingnessScore: 90,
				IsCurrentEvents:   true,
				ExpertiseLevel:    "intermediate",
				Questions:         []models.QuizQuestion{},
			}
			if item.Quiz != nil {
				quiz.Title = item.Quiz.Title
				quiz.Description = item.Quiz.Description
				for j, qq := range item.Quiz.Questions {
					quiz.Questions = append(quiz.Questions, models.QuizQuestion{
						ID:              fmt.Sprintf("news-question-%d-%d-%d", ts, i, j),
						Question:        qq.Question,
						Options:         orEmpty(qq.Options),
						CorrectAnswer:   qq.CorrectAnswer,
						Explanation:     qq.Explanation,
						Sources:         pick(qq.Sources),
						FactCheckStatus: "verified",
						ConfidenceScore: orDefaultNum(qq.ConfidenceScore, 90),
						RelatedTopics:   related,
					})
				}
			}
			generated = quiz
		}

		result.Items = append(result.Items, models.NewsBasedContent{
			ID:               fmt.Sprintf("news-content-%d-%s", ts, uuid.NewString()[:8]),
			Headline:         item.Headline,
			Summary:          item.Summary,
			Category:         q.Category,
			PublishedDate:    parsePublished(item.PublishedDate, now),
			Sources:          sources,
			GeneratedContent: generated,
		})
	}
	return result, nil
}

func newsPrompt(q NewsQuery) string {
	shape := `"flashcards": [
        {"question": "Educational question based on the news", "answer": "Comprehensive answer with context", "difficulty": "easy|medium|hard", "confidenceScore": 90, "sources": []}
      ]`
	if q.Type != "flashcards" {
		shape = `"quiz": {
        "title": "Quiz title based on the news",
        "description": "What this quiz covers",
        "questions": [
          {"question": "Question about the news story", "options": ["Option A", "Option B", "Option C", "Option D"], "correctAnswer": 0, "explanation": "Why this answer is correct", "confidenceScore": 90, "sources": []}
        ]
      }`
	}

	return fmt.Sprintf(`Find %d recent news stories from %s in the %s category and create educational %s from them.

Focus on news that has educational value, is factually accurate, comes from reliable sources and is appropriate for students and professionals.

Return a JSON object with this exact structure:
{
  "newsItems": [
    {
      "headline": "News headline",
      "summary": "Brief summary of the news story",
      "publishedDate": "2024-01-15T10:00:00Z",
      "relatedTopics": ["topic1", "topic2"],
      "sources": [
        {"url": "https://example.com/news-article", "title": "Article title", "publishedDate": "2024-01-15T10:00:00Z", "reliability": 95, "snippet": "Brief excerpt"}
      ],
      %s
    }
  ]
}

Requirements:
- All news must be from reliable, authoritative sources
- Include confidence scores for fact accuracy
- Educational content should help users understand the broader context
- Include diverse perspectives when appropriate`, q.Count, q.Timeframe, q.Category, q.Type, shape)
}
