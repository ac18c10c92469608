package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"studyforge-backend/internal/cache"
	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/models"
)

type TrendingResult struct {
	Topics      []models.TrendingTopic `json:"data"`
	LastUpdated time.Time              `json:"lastUpdated"`
	Category    string                 `json:"category"`
	Cached      bool                   `json:"cached,omitempty"`
	Fallback    bool                   `json:"fallback,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

type TrendingService struct {
	llm   llm.Completer
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewTrendingService(completer llm.Completer, c cache.Cache, ttl time.Duration) *TrendingService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TrendingService{llm: completer, cache: c, ttl: ttl, now: time.Now}
}

func trendingKey(category string, limit int) string {
	return fmt.Sprintf("trending:%s:%d", category, limit)
}

// NormalizeTrendingQuery applies the route defaults and bounds.
func NormalizeTrendingQuery(category string, limit int) (string, int) {
	if category == "" {
		category = "general"
	}
	if limit == 0 {
		limit = 10
	}
	return category, clamp(limit, 1, 25)
}

// Trending never fails: any upstream problem yields the fallback topics with
// the error message attached.
func (s *TrendingService) Trending(ctx context.Context, category string, limit int) *TrendingResult {
	category, limit = NormalizeTrendingQuery(category, limit)

	if s.cache != nil {
		var cached TrendingResult
		err := s.cache.Get(ctx, trendingKey(category, limit), &cached)
		cache.Observe("trending", err)
		if err == nil {
			cached.Cached = true
			return &cached
		}
	}

	result, err := s.Refresh(ctx, category, limit)
	if err != nil {
		log.Printf("Trending topics error (%s): %v", category, err)
		return s.fallback(category, err)
	}
	return result
}

// Refresh asks the model for fresh topics and stores them in the cache.
func (s *TrendingService) Refresh(ctx context.Context, category string, limit int) (*TrendingResult, error) {
	category, limit = NormalizeTrendingQuery(category, limit)

	var reply struct {
		Topics []struct {
			Topic           string      `json:"topic"`
			Score           float64     `json:"score"`
			Category        string      `json:"category"`
			RelatedKeywords []string    `json:"relatedKeywords"`
			Sources         []rawSource `json:"sources"`
		} `json:"topics"`
	}
	_, err := completeJSON(ctx, s.llm, llm.Request{
		System:      "You are a trend analysis expert. Analyze current trending topics and return them in valid JSON format with sources and relevance scores.",
		User:        trendingPrompt(category, limit),
		Temperature: 0.3,
		MaxTokens:   3000,
	}, &reply)
	if err != nil {
		return nil, err
	}
	if reply.Topics == nil {
		return nil, errors.New("no topics in trending response")
	}

	now := s.now()
	result := &TrendingResult{
		Topics:      make([]models.TrendingTopic, 0, len(reply.Topics)),
		LastUpdated: now,
		Category:    category,
	}
	for _, t := range reply.Topics {
		result.Topics = append(result.Topics, models.TrendingTopic{
			Topic:           t.Topic,
			Score:           t.Score,
			Category:        orDefault(t.Category, category),
			RelatedKeywords: orEmpty(t.RelatedKeywords),
			LastUpdated:     now,
			Sources:         normalizeSources(t.Sources, sourceOptions{reliability: 80, httpOnlyDomain: true}, now),
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, trendingKey(category, limit), result, s.ttl); err != nil {
			log.Printf("failed to cache trending topics for %s: %v", category, err)
		}
	}
	return result, nil
}

func (s *TrendingService) fallback(category string, err error) *TrendingResult {
	now := s.now()
	topic := func(name string, score float64, keywords []string, title string, reliability float64, snippet string) models.TrendingTopic {
		return models.TrendingTopic{
			Topic:           name,
			Score:           score,
			Category:        category,
			RelatedKeywords: keywords,
			LastUpdated:     now,
			Sources: []models.Source{{
				URL:           "https://example.com",
				Title:         title,
				PublishedDate: now,
				Reliability:   reliability,
				Domain:        "example.com",
				Snippet:       snippet,
			}},
		}
	}

	return &TrendingResult{
		Topics: []models.TrendingTopic{
			topic("Artificial Intelligence in Education", 95, []string{"AI", "machine learning", "education technology"},
				"AI in Education Trends", 85, "Latest trends in AI education"),
			topic("Climate Change Solutions", 88, []string{"sustainability", "renewable energy", "carbon neutral"},
				"Climate Solutions 2024", 90, "Innovative climate solutions"),
			topic("Quantum Computing Breakthroughs", 82, []string{"quantum", "computing", "technology"},
				"Quantum Computing News", 88, "Latest quantum computing developments"),
		},
		LastUpdated: now,
		Category:    category,
		Fallback:    true,
		Error:       err.Error(),
	}
}

func trendingPrompt(category string, limit int) string {
	return fmt.Sprintf(`Find the top %d trending topics in %s right now. Focus on topics that are:
1. Currently trending in news and social media
2. Educational or learning-relevant
3. Have reliable sources
4. Suitable for creating flashcards or quizzes

Return a JSON object with this exact structure:
{
  "topics": [
    {
      "topic": "Topic name",
      "score": 85,
      "category": "%s",
      "relatedKeywords": ["keyword1", "keyword2", "keyword3"],
      "sources": [
        {"url": "https://example.com/article", "title": "Article title", "publishedDate": "2024-01-15T10:00:00Z", "reliability": 90, "snippet": "Brief excerpt"}
      ]
    }
  ]
}

Requirements:
- Score should be 0-100 based on trending intensity
- Include at least 2 reliable sources per topic
- Focus on educational value
- Include diverse topics within the %s category`, limit, category, category, category)
}
