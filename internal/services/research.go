package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/models"
)

type ResearchOutcome struct {
	Result *models.ResearchResult `json:"data"`
	Query  models.ResearchQuery   `json:"query"`
	// ProcessingTime is the request duration in milliseconds.
	ProcessingTime int64 `json:"processingTime"`
}

type ResearchService struct {
	llm llm.Completer
	now func() time.Time
}

func NewResearchService(completer llm.Completer) *ResearchService {
	return &ResearchService{llm: completer, now: time.Now}
}

type researchReply struct {
	Topic        string `json:"topic"`
	Perspectives []struct {
		Perspective string      `json:"perspective"`
		Summary     string      `json:"summary"`
		KeyPoints   []string    `json:"keyPoints"`
		Bias        string      `json:"bias"`
		Credibility float64     `json:"credibility"`
		Sources     []rawSource `json:"sources"`
	} `json:"perspectives"`
	Synthesis    string `json:"synthesis"`
	DebatePoints []struct {
		Position string      `json:"position"`
		Argument string      `json:"argument"`
		Evidence []string    `json:"evidence"`
		Strength float64     `json:"strength"`
		Sources  []rawSource `json:"sources"`
	} `json:"debatePoints"`
	AllSources []rawSource `json:"allSources"`
	Confidence float64     `json:"confidence"`
}

func (s *ResearchService) Research(ctx context.Context, q models.ResearchQuery) (*ResearchOutcome, error) {
	if strings.TrimSpace(q.Topic) == "" {
		return nil, &ValidationError{Message: "Topic is required", Fields: map[string]string{"topic": "required"}}
	}
	start := s.now()
	q.Timeframe = orDefault(q.Timeframe, "week")
	q.Depth = orDefault(q.Depth, "detailed")
	if len(q.Perspectives) == 0 {
		q.Perspectives = []string{"academic", "industry", "news"}
	}

	var reply researchReply
	_, err := completeJSON(ctx, s.llm, llm.Request{
		System:      "You are an expert research assistant with access to real-time information. Provide comprehensive, multi-perspective analysis with proper source attribution. Always maintain objectivity and highlight different viewpoints on controversial topics.",
		User:        researchPrompt(q),
		Temperature: 0.3,
		MaxTokens:   6000,
	}, &reply)
	if err != nil {
		return nil, fmt.Errorf("research assistant: %w", err)
	}

	now := s.now()
	result := &models.ResearchResult{
		Topic:        firstNonEmpty(reply.Topic, q.Topic),
		Perspectives: make([]models.PerspectiveAnalysis, 0, len(reply.Perspectives)),
		Synthesis:    reply.Synthesis,
		Sources:      make([]models.Source, 0, len(reply.AllSources)),
		Confidence:   orDefaultNum(reply.Confidence, 85),
		LastUpdated:  now,
	}
	for _, p := range reply.Perspectives {
		result.Perspectives = append(result.Perspectives, models.PerspectiveAnalysis{
			Perspective: p.Perspective,
			Summary:     p.Summary,
			KeyPoints:   orEmpty(p.KeyPoints),
			Sources:     normalizeSources(p.Sources, sourceOptions{reliability: 80, perspective: p.Perspective}, now),
			Bias:        p.Bias,
			Credibility: orDefaultNum(p.Credibility, 80),
		})
	}
	if q.IncludeDebate {
		result.KeyDebatePoints = make([]models.DebatePoint, 0, len(reply.DebatePoints))
		for _, d := range reply.DebatePoints {
			result.KeyDebatePoints = append(result.KeyDebatePoints, models.DebatePoint{
				Position: d.Position,
				Argument: d.Argument,
				Evidence: orEmpty(d.Evidence),
				Strength: orDefaultNum(d.Strength, 70),
				Sources:  normalizeSources(d.Sources, sourceOptions{reliability: 80, perspective: "debate"}, now),
			})
		}
	}
	// allSources carry their own perspective.
	for _, src := range reply.AllSources {
		opts := sourceOptions{reliability: 80, perspective: orDefault(src.Perspective, "general")}
		result.Sources = append(result.Sources, normalizeSources([]rawSource{src}, opts, now)...)
	}

	return &ResearchOutcome{Result: result, Query: q, ProcessingTime: now.Sub(start).Milliseconds()}, nil
}

var researchDepths = map[string]string{
	"surface":       "a high-level overview",
	"detailed":      "detailed analysis",
	"comprehensive": "comprehensive, in-depth research",
}

func researchPrompt(q models.ResearchQuery) string {
	var b strings.Builder

	window := scienceTimeframes[q.Timeframe]
	if q.Timeframe == "live" {
		window = "the most recent information available"
	}
	fmt.Fprintf(&b, "Conduct %s on %q from %s.\n\n", researchDepths[q.Depth], q.Topic, window)
	fmt.Fprintf(&b, "Analyze this topic from the following perspectives: %s.\n\n", strings.Join(q.Perspectives, ", "))
	b.WriteString(`For each perspective, provide:
1. A clear summary of the viewpoint
2. Key supporting points
3. Potential biases or limitations
4. Credibility assessment (0-100)
5. Recent sources supporting this perspective

Then provide a synthesis that integrates all perspectives objectively, highlights areas of agreement and disagreement, identifies knowledge gaps and suggests areas for further research.`)

	if q.IncludeDebate {
		b.WriteString(`

Additionally, identify key debate points with pro arguments, con arguments and neutral positions, each with evidence and a strength assessment (0-100).`)
	}

	debate := ""
	if q.IncludeDebate {
		debate = `
  "debatePoints": [
    {"position": "pro|con|neutral", "argument": "Main argument", "evidence": ["evidence 1", "evidence 2"], "strength": 80, "sources": []}
  ],`
	}
	fmt.Fprintf(&b, `

Return a JSON object with this structure:
{
  "topic": %q,
  "perspectives": [
    {
      "perspective": "academic|industry|news|social",
      "summary": "Clear summary of this perspective",
      "keyPoints": ["point 1", "point 2", "point 3"],
      "bias": "Potential bias description",
      "credibility": 85,
      "sources": [{"url": "https://example.com", "title": "Source title", "publishedDate": "2024-01-15T10:00:00Z", "reliability": 90}]
    }
  ],
  "synthesis": "Comprehensive synthesis integrating all perspectives",%s
  "allSources": [],
  "confidence": 85
}

Requirements:
- Use only recent, reliable sources from %s
- Maintain objectivity and present multiple viewpoints
- Include source reliability scores
- Highlight any conflicting information
- Focus on factual, verifiable information`, q.Topic, debate, scienceTimeframes[q.Timeframe])

	return b.String()
}
