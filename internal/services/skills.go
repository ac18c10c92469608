package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/models"
)

type SkillDemandOutcome struct {
	Result        *models.SkillDemandResult `json:"data"`
	Query         models.SkillDemandQuery   `json:"query"`
	MarketSummary string                    `json:"marketSummary"`
}

type SkillsService struct {
	llm llm.Completer
	now func() time.Time
}

func NewSkillsService(completer llm.Completer) *SkillsService {
	return &SkillsService{llm: completer, now: time.Now}
}

type skillReply struct {
	Industry                string                 `json:"industry"`
	Role                    string                 `json:"role"`
	Location                string                 `json:"location"`
	Content                 []rawItem              `json:"content"`
	SkillAnalysis           models.SkillAnalysis   `json:"skillAnalysis"`
	MarketInsights          []models.MarketInsight `json:"marketInsights"`
	LearningRecommendations []models.LearningPath  `json:"learningRecommendations"`
	Sources                 []rawSource            `json:"sources"`
	TrendingScore           float64                `json:"trendingScore"`
	MarketSummary           string                 `json:"marketSummary"`
}

func (s *SkillsService) Analyze(ctx context.Context, q models.SkillDemandQuery) (*SkillDemandOutcome, error) {
	q.Timeframe = orDefault(q.Timeframe, "current")
	q.AnalysisType = orDefault(q.AnalysisType, "skills")
	feedDefaults(&q.ContentType, &q.Count, &q.Difficulty)

	var reply skillReply
	_, err := completeJSON(ctx, s.llm, llm.Request{
		System:      "You are an expert career advisor and labor market analyst with access to real-time job market data, salary information, and skill demand trends. Provide accurate, data-driven insights about skill demand, career opportunities, and learning recommendations. Always cite reliable sources and include specific market data.",
		User:        skillPrompt(q),
		Temperature: 0.3,
		MaxTokens:   6000,
	}, &reply)
	if err != nil {
		return nil, fmt.Errorf("skill demand: %w", err)
	}

	now := s.now()
	analysis := reply.SkillAnalysis
	if analysis.TopSkills == nil {
		analysis.TopSkills = []models.Skill{}
	}
	if analysis.EmergingSkills == nil {
		analysis.EmergingSkills = []models.Skill{}
	}
	if analysis.DecliningSkills == nil {
		analysis.DecliningSkills = []models.Skill{}
	}
	if analysis.SalaryImpact == nil {
		analysis.SalaryImpact = []models.SalaryImpact{}
	}
	if analysis.DemandTrends == nil {
		analysis.DemandTrends = []models.DemandTrend{}
	}

	result := &models.SkillDemandResult{
		Industry: firstNonEmpty(reply.Industry, q.Industry, "Technology"),
		Role:     firstNonEmpty(reply.Role, q.Role, "General"),
		Location: firstNonEmpty(reply.Location, q.Location, "Global"),
		GeneratedContent: learningItems(reply.Content, itemShape{
			prefix:     "skill",
			flashcards: q.ContentType == "flashcards",
			topic:      "Skill Demand - " + q.AnalysisType,
			difficulty: q.Difficulty,
			confidence: 85,
			sources:    sourceOptions{reliability: 85, dataType: "skill-demand"},
			trending:   func(r rawItem) float64 { return skillScore(r.SkillContext) },
		}, now),
		SkillAnalysis:           analysis,
		MarketInsights:          reply.MarketInsights,
		LearningRecommendations: reply.LearningRecommendations,
		Sources:                 normalizeSources(reply.Sources, sourceOptions{reliability: 85, dataType: "skill-demand"}, now),
		LastUpdated:             now,
		TrendingScore:           orDefaultNum(reply.TrendingScore, 80),
	}
	if result.MarketInsights == nil {
		result.MarketInsights = []models.MarketInsight{}
	}
	if result.LearningRecommendations == nil {
		result.LearningRecommendations = []models.LearningPath{}
	}

	return &SkillDemandOutcome{Result: result, Query: q, MarketSummary: reply.MarketSummary}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var (
	skillTimeframes = map[string]string{
		"current":   "current market demand and trending skills",
		"emerging":  "emerging skills and future opportunities",
		"declining": "declining skills and market shifts",
		"future":    "predicted future skill demands and career paths",
	}
	skillAnalyses = map[string]string{
		"skills":         "skill demand analysis and market trends",
		"salaries":       "salary impact and compensation trends",
		"trends":         "market trends and demand patterns",
		"learning-paths": "learning recommendations and career development",
	}
)

func skillPrompt(q models.SkillDemandQuery) string {
	var scope []string
	if q.Industry != "" {
		scope = append(scope, fmt.Sprintf("in the %s industry", q.Industry))
	}
	if q.Role != "" {
		scope = append(scope, fmt.Sprintf("for %s roles", q.Role))
	}
	if q.Location != "" {
		scope = append(scope, "in "+q.Location)
	}

	item := `{"question": "Question about skill demand or market trends", "answer": "Answer with current market data and insights", "difficulty": "` + q.Difficulty + `", "skillContext": "Specific skills or market context", "confidence": 85, "sources": []}`
	if q.ContentType != "flashcards" {
		item = `{"question": "Question about skill demand or career trends", "options": ["Option A", "Option B", "Option C", "Option D"], "correctAnswer": 0, "explanation": "Explanation with current market data", "skillContext": "Specific skills or market context", "confidence": 85, "sources": []}`
	}

	return fmt.Sprintf(`Analyze %s %s and generate %d educational %s about %s.

Use the most current job market data, salary information, and skill demand trends available.

Return a JSON object with this structure:
{
  "industry": "%s",
  "role": "%s",
  "location": "%s",
  "content": [
    %s
  ],
  "skillAnalysis": {
    "topSkills": [{"name": "Skill name", "category": "technical|soft|domain|tool", "demandLevel": "high|critical", "growthRate": 25.5, "averageSalaryImpact": 15000, "jobPostings": 5000, "learningDifficulty": "medium", "timeToLearn": "3-6 months"}],
    "emergingSkills": [],
    "decliningSkills": [],
    "salaryImpact": [{"skill": "Skill name", "salaryIncrease": 15000, "percentageIncrease": 20, "marketData": "Current market context"}],
    "demandTrends": [{"skill": "Skill name", "trend": "rising|stable|declining", "changePercentage": 25, "timeframe": "6 months", "confidence": 85}]
  },
  "marketInsights": [{"insight": "Key market insight", "category": "opportunity|threat|trend|prediction", "impact": "high", "timeframe": "6-12 months", "sources": ["source1"]}],
  "learningRecommendations": [{"skill": "Skill name", "priority": "high|urgent", "estimatedTime": "3-6 months", "resources": [{"type": "course|certification", "name": "Resource name", "provider": "Provider name", "cost": "free|paid", "duration": "40 hours"}], "prerequisites": ["prerequisite1"], "careerImpact": "Expected career impact"}],
  "sources": [{"url": "https://example.com", "title": "Job market report title", "publishedDate": "2024-01-15T10:00:00Z", "reliability": 90}],
  "trendingScore": 85,
  "marketSummary": "Brief summary of current market conditions"
}

Requirements:
- Use current job market data and salary information with specific numbers
- Provide realistic learning timelines
- Make content appropriate for %s difficulty level
- Highlight both opportunities and challenges in the market`,
		skillTimeframes[q.Timeframe], strings.Join(scope, " "), q.Count, q.ContentType, skillAnalyses[q.AnalysisType],
		firstNonEmpty(q.Industry, "Technology"), firstNonEmpty(q.Role, "General"), firstNonEmpty(q.Location, "Global"),
		item, q.Difficulty)
}
