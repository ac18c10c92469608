package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"studyforge-backend/internal/cache"
	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/models"
)

type LiveDataOutcome struct {
	Result *models.LiveDataResult `json:"data"`
	Query  models.LiveDataQuery   `json:"query"`
	// UpdateInterval is in milliseconds.
	UpdateInterval int64 `json:"updateInterval"`
	Cached         bool  `json:"cached,omitempty"`
}

type LiveDataService struct {
	llm   llm.Completer
	cache cache.Cache
	now   func() time.Time
}

func NewLiveDataService(completer llm.Completer, c cache.Cache) *LiveDataService {
	return &LiveDataService{llm: completer, cache: c, now: time.Now}
}

// UpdateInterval is how long a live-data result stays fresh.
func UpdateInterval(dataType string) time.Duration {
	switch dataType {
	case "stocks", "crypto":
		return 5 * time.Minute
	case "weather":
		return 30 * time.Minute
	case "sports":
		return 15 * time.Minute
	case "economics":
		return time.Hour
	default:
		return 30 * time.Minute
	}
}

// NormalizeLiveDataQuery applies the route defaults in place.
func NormalizeLiveDataQuery(q *models.LiveDataQuery) {
	q.DataType = orDefault(q.DataType, "stocks")
	q.AnalysisType = orDefault(q.AnalysisType, "trends")
	feedDefaults(&q.ContentType, &q.Count, &q.Difficulty)
}

func liveDataKey(q models.LiveDataQuery) string {
	return fmt.Sprintf("livedata:%s:%s:%s:%s:%s:%d:%s",
		q.DataType, strings.Join(q.Symbols, ","), q.Region, q.AnalysisType, q.ContentType, q.Count, q.Difficulty)
}

// Learn serves a cached result while it is fresh, otherwise refreshes.
func (s *LiveDataService) Learn(ctx context.Context, q models.LiveDataQuery) (*LiveDataOutcome, error) {
	NormalizeLiveDataQuery(&q)

	if s.cache != nil {
		var cached LiveDataOutcome
		err := s.cache.Get(ctx, liveDataKey(q), &cached)
		cache.Observe("livedata", err)
		if err == nil {
			cached.Cached = true
			return &cached, nil
		}
	}
	return s.Refresh(ctx, q)
}

func (s *LiveDataService) Refresh(ctx context.Context, q models.LiveDataQuery) (*LiveDataOutcome, error) {
	NormalizeLiveDataQuery(&q)

	var reply struct {
		DataType     string             `json:"dataType"`
		ContentType  string             `json:"contentType"`
		Content      []rawItem          `json:"content"`
		DataSnapshot json.RawMessage    `json:"dataSnapshot"`
		Trends       []models.DataTrend `json:"trends"`
		KeyMetrics   []models.KeyMetric `json:"keyMetrics"`
		Insights     []string           `json:"insights"`
		Sources      []rawSource        `json:"sources"`
	}
	_, err := completeJSON(ctx, s.llm, llm.Request{
		System:      "You are an expert data analyst and educator with access to real-time market, weather, sports, and economic data. Create educational content that explains current data trends, patterns, and their underlying principles. Always include current data points and explain their significance.",
		User:        liveDataPrompt(q),
		Temperature: 0.4,
		MaxTokens:   5000,
	}, &reply)
	if err != nil {
		return nil, fmt.Errorf("live data learning: %w", err)
	}

	now := s.now()
	interval := UpdateInterval(q.DataType)
	srcOpts := sourceOptions{reliability: 85, dataType: q.DataType}
	result := &models.LiveDataResult{
		DataType:    firstNonEmpty(reply.DataType, q.DataType),
		ContentType: firstNonEmpty(reply.ContentType, q.ContentType),
		GeneratedContent: learningItems(reply.Content, itemShape{
			prefix:     "live",
			flashcards: q.ContentType == "flashcards",
			topic:      q.DataType + " - " + q.AnalysisType,
			difficulty: q.Difficulty,
			confidence: 90,
			sources:    srcOpts,
			trending:   func(rawItem) float64 { return 95 },
		}, now),
		DataSnapshot: models.DataSnapshot{
			Timestamp:  now,
			Data:       reply.DataSnapshot,
			Trends:     reply.Trends,
			KeyMetrics: reply.KeyMetrics,
		},
		Insights:    orEmpty(reply.Insights),
		Sources:     normalizeSources(reply.Sources, srcOpts, now),
		LastUpdated: now,
		NextUpdate:  now.Add(interval),
	}
	if len(result.DataSnapshot.Data) == 0 {
		result.DataSnapshot.Data = json.RawMessage("null")
	}
	if result.DataSnapshot.Trends == nil {
		result.DataSnapshot.Trends = []models.DataTrend{}
	}
	if result.DataSnapshot.KeyMetrics == nil {
		result.DataSnapshot.KeyMetrics = []models.KeyMetric{}
	}

	outcome := &LiveDataOutcome{Result: result, Query: q, UpdateInterval: interval.Milliseconds()}
	if s.cache != nil {
		if err := s.cache.Set(ctx, liveDataKey(q), outcome, interval); err != nil {
			log.Printf("failed to cache live data for %s: %v", q.DataType, err)
		}
	}
	return outcome, nil
}

var liveAnalyses = map[string]string{
	"trends":       "current trends and patterns",
	"predictions":  "predictions and forecasts based on current data",
	"explanations": "explanations of current data and underlying principles",
	"comparisons":  "comparisons between current and historical data",
}

func liveDataContext(q models.LiveDataQuery) string {
	symbols := strings.Join(q.Symbols, ", ")
	switch q.DataType {
	case "stocks":
		if symbols != "" {
			return "for stocks: " + symbols
		}
		return "for major stock indices and trending stocks"
	case "crypto":
		if symbols != "" {
			return "for cryptocurrencies: " + symbols
		}
		return "for major cryptocurrencies like Bitcoin, Ethereum"
	case "weather":
		if q.Region != "" {
			return "for " + q.Region
		}
		return "for major global regions"
	case "sports":
		if q.Region != "" {
			return "for " + q.Region + " sports"
		}
		return "for major sports leagues and current games"
	case "economics":
		if q.Region != "" {
			return "for " + q.Region + " economy"
		}
		return "for global economic indicators"
	}
	return ""
}

func liveDataPrompt(q models.LiveDataQuery) string {
	item := fmt.Sprintf(`{"question": "Question incorporating current %s data", "answer": "Answer explaining the data and its significance", "difficulty": "%s", "dataContext": "Specific data points used", "confidence": 90, "sources": []}`, q.DataType, q.Difficulty)
	if q.ContentType != "flashcards" {
		item = fmt.Sprintf(`{"question": "Question about current %s data", "options": ["Option A", "Option B", "Option C", "Option D"], "correctAnswer": 0, "explanation": "Explanation using current data", "dataContext": "Specific data points used", "confidence": 90, "sources": []}`, q.DataType)
	}

	return fmt.Sprintf(`Generate %d educational %s about %s %s %s.

Use the most current real-time data available and create %s difficulty educational content. Include current data points, why the data matters and the trends behind it.

Return a JSON object with this structure:
{
  "dataType": "%s",
  "contentType": "%s",
  "content": [
    %s
  ],
  "dataSnapshot": {"currentData": "Summary of current data used", "timestamp": "Current timestamp"},
  "trends": [{"metric": "Specific metric name", "direction": "up|down|stable", "magnitude": 5.2, "timeframe": "24h|1w|1m", "significance": "high|medium|low"}],
  "keyMetrics": [{"name": "Metric name", "value": "Current value", "change": "+5.2%%", "context": "What this metric means"}],
  "insights": ["Key insight about current data trends"],
  "sources": [{"url": "https://example.com", "title": "Data source title", "publishedDate": "2024-01-15T10:00:00Z", "reliability": 95}]
}

Requirements:
- Use only current, real-time data with specific numbers and metrics
- Connect data to broader concepts and principles
- Make content appropriate for %s difficulty level`,
		q.Count, q.ContentType, q.DataType, liveAnalyses[q.AnalysisType], liveDataContext(q),
		q.Difficulty, q.DataType, q.ContentType, item, q.Difficulty)
}
