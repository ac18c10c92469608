package services

import (
	"context"
	"fmt"
	"time"

	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/models"
)

type ViralOutcome struct {
	Result       *models.ViralAnalysisResult `json:"data"`
	Query        models.ViralAnalysisQuery   `json:"query"`
	ViralSummary string                      `json:"viralSummary"`
}

type ViralService struct {
	llm llm.Completer
	now func() time.Time
}

func NewViralService(completer llm.Completer) *ViralService {
	return &ViralService{llm: completer, now: time.Now}
}

type rawViralContent struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Platform    string         `json:"platform"`
	Creator     models.Creator `json:"creator"`
	Metrics     struct {
		Views          float64 `json:"views"`
		Likes          float64 `json:"likes"`
		Shares         float64 `json:"shares"`
		Comments       float64 `json:"comments"`
		EngagementRate float64 `json:"engagementRate"`
		ViralityScore  float64 `json:"viralityScore"`
		GrowthRate     float64 `json:"growthRate"`
		PeakTime       string  `json:"peakTime"`
	} `json:"metrics"`
	ViralityFactors  []models.ViralityFactor `json:"viralityFactors"`
	EducationalValue models.EducationalValue `json:"educationalValue"`
	FactCheck        struct {
		Status      string      `json:"status"`
		Confidence  float64     `json:"confidence"`
		Sources     []rawSource `json:"sources"`
		Corrections []string    `json:"corrections"`
		Context     string      `json:"context"`
	} `json:"factCheck"`
	RelatedTopics   []string `json:"relatedTopics"`
	Timestamp       string   `json:"timestamp"`
	URL             string   `json:"url"`
	ContentCategory string   `json:"contentCategory"`
}

type viralReply struct {
	Platform            string                      `json:"platform"`
	ContentType         string                      `json:"contentType"`
	Content             []rawItem                   `json:"content"`
	ViralContent        []rawViralContent           `json:"viralContent"`
	TrendAnalysis       models.TrendAnalysis        `json:"trendAnalysis"`
	EducationalInsights []models.EducationalInsight `json:"educationalInsights"`
	ViralityMetrics     models.ViralityMetrics      `json:"viralityMetrics"`
	Sources             []rawSource                 `json:"sources"`
	ViralScore          float64                     `json:"viralScore"`
	ViralSummary        string                      `json:"viralSummary"`
}

func (s *ViralService) Analyze(ctx context.Context, q models.ViralAnalysisQuery) (*ViralOutcome, error) {
	q.Platform = orDefault(q.Platform, "all")
	q.ContentType = orDefault(q.ContentType, "all")
	q.Timeframe = orDefault(q.Timeframe, "today")
	q.ViralityThreshold = orDefault(q.ViralityThreshold, "trending")
	q.AnalysisDepth = orDefault(q.AnalysisDepth, "detailed")
	feedDefaults(&q.GenerateContent, &q.Count, &q.Difficulty)

	var reply viralReply
	_, err := completeJSON(ctx, s.llm, llm.Request{
		System:      "You are an expert social media analyst and educational content strategist with access to real-time viral content data across platforms. Analyze viral trends, identify educational opportunities, and create learning content from trending topics. Always verify information accuracy and assess educational value objectively.",
		User:        viralPrompt(q),
		Temperature: 0.3,
		MaxTokens:   8000,
	}, &reply)
	if err != nil {
		return nil, fmt.Errorf("viral analysis: %w", err)
	}

	now := s.now()
	flashcards := q.GenerateContent == "flashcards" || q.GenerateContent == "both"
	items := learningItems(reply.Content, itemShape{
		prefix:     "viral",
		flashcards: flashcards,
		topic:      "Viral Content - " + q.ContentType,
		difficulty: q.Difficulty,
		confidence: 85,
		sources:    sourceOptions{reliability: 80, platform: q.Platform},
		trending:   func(r rawItem) float64 { return viralScore(r.ViralContext) },
	}, now)
	for i := range items {
		raw := reply.Content[i]
		items[i].ID = fmt.Sprintf("viral-content-%d-%d", now.UnixMilli(), i)
		items[i].EducationalValue = orDefault(raw.EducationalValue, "medium")
		if !flashcards {
			// Question-shaped items still carry the shared topic and score.
			created := now
			items[i].Topic = "Viral Content - " + q.ContentType
			items[i].CreatedAt = &created
			items[i].TrendingnessScore = viralScore(raw.ViralContext)
		}
	}

	result := &models.ViralAnalysisResult{
		Platform:            firstNonEmpty(reply.Platform, q.Platform),
		ContentType:         firstNonEmpty(reply.ContentType, q.ContentType),
		GeneratedContent:    items,
		ViralContent:        make([]models.ViralContent, 0, len(reply.ViralContent)),
		TrendAnalysis:       trendAnalysisDefaults(reply.TrendAnalysis),
		EducationalInsights: reply.EducationalInsights,
		ViralityMetrics:     reply.ViralityMetrics,
		Sources:             normalizeSources(reply.Sources, sourceOptions{reliability: 80, platform: q.Platform}, now),
		LastUpdated:         now,
		ViralScore:          orDefaultNum(reply.ViralScore, 75),
	}
	if result.EducationalInsights == nil {
		result.EducationalInsights = []models.EducationalInsight{}
	}
	m := &result.ViralityMetrics
	m.TopPerformingCategories = orEmpty(m.TopPerformingCategories)
	m.PeakViralTimes = orEmpty(m.PeakViralTimes)
	m.CrossPlatformTrends = orEmpty(m.CrossPlatformTrends)

	for _, c := range reply.ViralContent {
		result.ViralContent = append(result.ViralContent, viralContentDefaults(c, q.ContentType, now))
	}

	return &ViralOutcome{Result: result, Query: q, ViralSummary: reply.ViralSummary}, nil
}

func viralContentDefaults(c rawViralContent, contentType string, now time.Time) models.ViralContent {
	creator := c.Creator
	creator.Username = orDefault(creator.Username, "unknown")
	creator.Influence = orDefault(creator.Influence, "medium")
	creator.Expertise = orEmpty(creator.Expertise)

	edu := c.EducationalValue
	edu.Score = orDefaultNum(edu.Score, 50)
	edu.LearningObjectives = orEmpty(edu.LearningObjectives)
	edu.KeyTakeaways = orEmpty(edu.KeyTakeaways)
	edu.FurtherReading = orEmpty(edu.FurtherReading)
	edu.Applicability = orDefault(edu.Applicability, "medium")

	factors := c.ViralityFactors
	if factors == nil {
		factors = []models.ViralityFactor{}
	}

	return models.ViralContent{
		ID:          firstNonEmpty(c.ID, fmt.Sprintf("viral-%d", now.UnixMilli())),
		Title:       c.Title,
		Description: c.Description,
		Platform:    c.Platform,
		Creator:     creator,
		Metrics: models.ContentMetrics{
			Views:          c.Metrics.Views,
			Likes:          c.Metrics.Likes,
			Shares:         c.Metrics.Shares,
			Comments:       c.Metrics.Comments,
			EngagementRate: c.Metrics.EngagementRate,
			ViralityScore:  c.Metrics.ViralityScore,
			GrowthRate:     c.Metrics.GrowthRate,
			PeakTime:       parsePublished(c.Metrics.PeakTime, now),
		},
		ViralityFactors:  factors,
		EducationalValue: edu,
		FactCheck: models.ContentFactCheck{
			Status:      orDefault(c.FactCheck.Status, "unverified"),
			Confidence:  orDefaultNum(c.FactCheck.Confidence, 70),
			Sources:     normalizeSources(c.FactCheck.Sources, sourceOptions{reliability: 80, platform: firstNonEmpty(c.Platform, "unknown")}, now),
			Corrections: c.FactCheck.Corrections,
			Context:     c.FactCheck.Context,
		},
		RelatedTopics:   orEmpty(c.RelatedTopics),
		Timestamp:       parsePublished(c.Timestamp, now),
		URL:             c.URL,
		ContentCategory: firstNonEmpty(c.ContentCategory, contentType),
	}
}

func trendAnalysisDefaults(t models.TrendAnalysis) models.TrendAnalysis {
	if t.EmergingTrends == nil {
		t.EmergingTrends = []models.EmergingTrend{}
	}
	if t.ViralPatterns == nil {
		t.ViralPatterns = []models.ViralPattern{}
	}
	if t.PlatformInsights == nil {
		t.PlatformInsights = []models.PlatformInsight{}
	}
	if t.PredictedTrends == nil {
		t.PredictedTrends = []models.PredictedTrend{}
	}
	a := &t.AudienceAnalysis
	a.PrimaryDemographics = orEmpty(a.PrimaryDemographics)
	a.Interests = orEmpty(a.Interests)
	a.EngagementPatterns = orEmpty(a.EngagementPatterns)
	a.LearningPreferences = orEmpty(a.LearningPreferences)
	a.ContentConsumption = orEmpty(a.ContentConsumption)
	return t
}

var viralThresholds = map[string]string{
	"trending":   "trending content with significant engagement",
	"viral":      "viral content with massive reach",
	"mega-viral": "mega-viral content with unprecedented engagement",
}

func viralPrompt(q models.ViralAnalysisQuery) string {
	platform := q.Platform
	if platform == "all" {
		platform = "all major social media platforms"
	}
	content := q.ContentType + " content"
	if q.ContentType == "all" {
		content = "all types of content"
	}

	item := `{"question": "Question about the viral content", "answer": "Answer with educational context", "difficulty": "` + q.Difficulty + `", "viralContext": "Why this content went viral", "educationalValue": "high|medium|low", "factCheckStatus": "verified|disputed|unverified", "confidence": 85, "sources": []}`
	if q.GenerateContent == "quiz" {
		item = `{"question": "Question about the viral content", "options": ["Option A", "Option B", "Option C", "Option D"], "correctAnswer": 0, "explanation": "Explanation with educational context", "viralContext": "Why this content went viral", "educationalValue": "high|medium|low", "factCheckStatus": "verified|disputed|unverified", "confidence": 85, "sources": []}`
	}

	return fmt.Sprintf(`Analyze %s on %s featuring %s from %s.

Provide %s analysis and generate %d educational %s based on viral content insights. Cover educational value, fact-checking, learning objectives and virality factors.

Return a JSON object with this structure:
{
  "platform": "%s",
  "contentType": "%s",
  "content": [
    %s
  ],
  "viralContent": [
    {
      "id": "viral-1",
      "title": "Content title",
      "description": "What the content is about",
      "platform": "twitter|tiktok|youtube|instagram|reddit",
      "creator": {"username": "creator", "displayName": "Creator", "followers": 100000, "verified": true, "influence": "high|medium|low", "expertise": ["topic"]},
      "metrics": {"views": 1000000, "likes": 50000, "shares": 10000, "comments": 5000, "engagementRate": 6.5, "viralityScore": 85, "growthRate": 150, "peakTime": "2024-01-15T10:00:00Z"},
      "viralityFactors": [{"factor": "Factor", "impact": "high|medium|low", "description": "How it contributed", "contribution": 30}],
      "educationalValue": {"score": 80, "learningObjectives": ["objective"], "keyTakeaways": ["takeaway"], "misconceptions": ["misconception"], "furtherReading": ["resource"], "applicability": "high|medium|low"},
      "factCheck": {"status": "verified|partially-true|misleading|false|unverified", "confidence": 85, "sources": [], "corrections": [], "context": "Additional context"},
      "relatedTopics": ["topic1"],
      "timestamp": "2024-01-15T10:00:00Z",
      "url": "https://example.com/post",
      "contentCategory": "educational|news|entertainment|science|technology"
    }
  ],
  "trendAnalysis": {
    "emergingTrends": [{"trend": "Trend", "momentum": 85, "platforms": ["tiktok"], "demographics": ["18-24"], "timeframe": "this week", "relatedContent": ["viral-1"]}],
    "viralPatterns": [{"pattern": "Pattern", "frequency": 40, "effectiveness": 80, "examples": ["example"], "applicability": ["education"]}],
    "platformInsights": [{"platform": "tiktok", "viralCharacteristics": ["short"], "optimalTiming": "evenings", "contentFormats": ["video"], "audiencePreferences": ["humor"]}],
    "audienceAnalysis": {"primaryDemographics": ["18-24"], "interests": ["science"], "engagementPatterns": ["shares"], "learningPreferences": ["visual"], "contentConsumption": ["mobile"]},
    "predictedTrends": [{"prediction": "Prediction", "probability": 70, "timeframe": "next month", "indicators": ["indicator"], "potential": "high|medium|low"}]
  },
  "educationalInsights": [{"insight": "Insight", "category": "learning-trend|engagement-strategy|content-format|audience-behavior", "impact": "high|medium|low", "applications": ["application"], "evidence": ["evidence"]}],
  "viralityMetrics": {"totalViralContent": 25, "averageViralityScore": 78, "topPerformingCategories": ["science"], "peakViralTimes": ["18:00-21:00"], "crossPlatformTrends": ["trend"], "educationalViralContent": 40},
  "sources": [{"url": "https://example.com", "title": "Source title", "publishedDate": "2024-01-15T10:00:00Z", "reliability": 85, "platform": "twitter"}],
  "viralScore": 85,
  "viralSummary": "Brief summary of the viral landscape"
}

Requirements:
- Verify information accuracy and flag misleading content
- Assess educational value objectively
- Make content appropriate for %s difficulty level`,
		viralThresholds[q.ViralityThreshold], platform, content, scienceTimeframes[q.Timeframe],
		q.AnalysisDepth, q.Count, q.GenerateContent, q.Platform, q.ContentType, item, q.Difficulty)
}
