package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/models"
)

type GlobalEventsResult struct {
	Digest   *models.GlobalEventsDigest `json:"data"`
	Region   string                     `json:"region"`
	Category string                     `json:"category"`
	Fallback bool                       `json:"fallback,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

type GlobalEventsService struct {
	llm llm.Completer
	now func() time.Time
}

func NewGlobalEventsService(completer llm.Completer) *GlobalEventsService {
	return &GlobalEventsService{llm: completer, now: time.Now}
}

// Events falls back to a canned digest on any upstream failure.
func (s *GlobalEventsService) Events(ctx context.Context, req models.GlobalEventsRequest) *GlobalEventsResult {
	region := orDefault(req.Region, "global")
	category := orDefault(req.Category, "all")
	educational := req.GenerateEducationalContent == nil || *req.GenerateEducationalContent

	digest, err := s.fetch(ctx, region, category, educational)
	if err != nil {
		log.Printf("Global events error (%s/%s): %v", region, category, err)
		return &GlobalEventsResult{
			Digest:   s.fallbackDigest(),
			Region:   region,
			Category: category,
			Fallback: true,
			Error:    err.Error(),
		}
	}
	return &GlobalEventsResult{Digest: digest, Region: region, Category: category}
}

func (s *GlobalEventsService) fetch(ctx context.Context, region, category string, educational bool) (*models.GlobalEventsDigest, error) {
	var reply struct {
		CurrentEvents         []models.GlobalEvent `json:"currentEvents"`
		LearningOpportunities []string             `json:"learningOpportunities"`
		KeyInsights           []string             `json:"keyInsights"`
		Sources               []rawSource          `json:"sources"`
	}
	raw, err := completeJSON(ctx, s.llm, llm.Request{
		System:      "You are a global events analyst. Provide current worldwide events with educational context and analysis.",
		User:        globalEventsPrompt(region, category, educational),
		Temperature: 0.3,
		MaxTokens:   4000,
	}, &reply)
	if err != nil {
		return nil, err
	}

	now := s.now()
	digest := &models.GlobalEventsDigest{
		CurrentEvents:         make([]models.GlobalEvent, 0, len(reply.CurrentEvents)),
		LearningOpportunities: orEmpty(reply.LearningOpportunities),
		KeyInsights:           orEmpty(reply.KeyInsights),
		Sources:               normalizeSources(reply.Sources, sourceOptions{reliability: 80, category: category}, now),
		GlobalRelevanceScore:  eventScore(raw),
		LastUpdated:           now,
	}
	for _, e := range reply.CurrentEvents {
		e.Category = orDefault(e.Category, category)
		e.RelatedTopics = orEmpty(e.RelatedTopics)
		e.TrendingScore = eventScore(e.Title + " " + e.Description + " " + e.EducationalContext)
		digest.CurrentEvents = append(digest.CurrentEvents, e)
	}
	return digest, nil
}

func (s *GlobalEventsService) fallbackDigest() *models.GlobalEventsDigest {
	now := s.now()
	date := now.UTC().Format(time.RFC3339)
	events := []models.GlobalEvent{
		{
			Title:              "Global Climate Summit 2024",
			Description:        "World leaders gather to discuss climate action and sustainable development goals.",
			Category:           "environment",
			Date:               date,
			ImpactLevel:        4,
			EducationalContext: "This summit demonstrates international cooperation on environmental issues and the complexity of global governance.",
			RelatedTopics:      []string{"climate change", "international relations", "sustainable development"},
		},
		{
			Title:              "Technological Innovation in Healthcare",
			Description:        "New AI-powered diagnostic tools are revolutionizing medical care worldwide.",
			Category:           "technology",
			Date:               date,
			ImpactLevel:        5,
			EducationalContext: "This showcases how technology can improve healthcare accessibility and accuracy.",
			RelatedTopics:      []string{"artificial intelligence", "healthcare", "innovation"},
		},
	}
	for i := range events {
		events[i].TrendingScore = eventScore(events[i].Title + " " + events[i].Description + " " + events[i].EducationalContext)
	}

	return &models.GlobalEventsDigest{
		CurrentEvents: events,
		LearningOpportunities: []string{
			"Analyze the role of international organizations in addressing global challenges",
			"Study the impact of technology on traditional industries",
			"Examine how cultural differences affect global cooperation",
		},
		KeyInsights: []string{
			"Global events often require multilateral cooperation",
			"Technology continues to reshape traditional sectors",
			"Environmental concerns are driving policy changes worldwide",
		},
		Sources: []models.Source{{
			URL:           "https://example.com",
			Title:         "Global Events Analysis",
			Domain:        "example.com",
			Reliability:   85,
			PublishedDate: now,
		}},
		LastUpdated: now,
	}
}

func globalEventsPrompt(region, category string, educational bool) string {
	prompt := fmt.Sprintf(`Analyze current global events for the %s region in the %s category.

Return a JSON object with this structure:
{
  "currentEvents": [
    {
      "title": "Event title",
      "description": "Brief description of the event",
      "category": "%s",
      "date": "2024-01-15T10:00:00Z",
      "impactLevel": 4,
      "educationalContext": "Why this event is educationally significant",
      "relatedTopics": ["topic1", "topic2", "topic3"]
    }
  ],
  "learningOpportunities": ["Educational question or learning opportunity"],
  "keyInsights": ["Important insight about current global trends"],
  "sources": [{"url": "https://source.com", "title": "Source title", "reliability": 90, "publishedDate": "2024-01-15T10:00:00Z"}]
}

Focus on:
- Current events from the last 7 days
- Educational significance and learning value
- Global impact and implications
- Reliable news sources`, region, category, category)
	if educational {
		prompt += "\n\nInclude detailed educational context for each event."
	}
	return prompt
}
