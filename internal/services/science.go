package services

import (
	"context"
	"fmt"
	"time"

	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/models"
)

type ScienceResult struct {
	Result          *models.ScienceTrackerResult `json:"data"`
	Query           models.ScienceQuery          `json:"query"`
	ResearchSummary string                       `json:"researchSummary"`
}

type ScienceService struct {
	llm llm.Completer
	now func() time.Time
}

func NewScienceService(completer llm.Completer) *ScienceService {
	return &ScienceService{llm: completer, now: time.Now}
}

type scienceReply struct {
	Field       string    `json:"field"`
	Content     []rawItem `json:"content"`
	Discoveries []struct {
		models.ScientificDiscovery
		PublicationDate string      `json:"publicationDate"`
		Sources         []rawSource `json:"sources"`
	} `json:"discoveries"`
	ResearchTrends     []models.ResearchTrend     `json:"researchTrends"`
	FutureImplications []models.FutureImplication `json:"futureImplications"`
	Sources            []rawSource                `json:"sources"`
	InnovationScore    float64                    `json:"innovationScore"`
	ResearchSummary    string                     `json:"researchSummary"`
}

func (s *ScienceService) Track(ctx context.Context, q models.ScienceQuery) (*ScienceResult, error) {
	q.Field = orDefault(q.Field, "all")
	q.Timeframe = orDefault(q.Timeframe, "week")
	q.Significance = orDefault(q.Significance, "major")
	feedDefaults(&q.ContentType, &q.Count, &q.Difficulty)
	if q.IncludeImplications == nil {
		include := true
		q.IncludeImplications = &include
	}

	var reply scienceReply
	_, err := completeJSON(ctx, s.llm, llm.Request{
		System:      "You are an expert scientific researcher and educator with access to the latest scientific publications, research findings, and breakthrough discoveries. Provide accurate, up-to-date information about scientific developments, their methodology, significance, and potential implications. Always cite reliable scientific sources and maintain scientific rigor.",
		User:        sciencePrompt(q),
		Temperature: 0.2,
		MaxTokens:   7000,
	}, &reply)
	if err != nil {
		return nil, fmt.Errorf("science tracker: %w", err)
	}

	now := s.now()
	journal := sourceOptions{reliability: 90, sourceType: "journal"}
	items := learningItems(reply.Content, itemShape{
		prefix:     "science",
		flashcards: q.ContentType == "flashcards",
		topic:      "Scientific Discovery - " + q.Field,
		difficulty: q.Difficulty,
		confidence: 90,
		sources:    journal,
		trending:   func(r rawItem) float64 { return scienceScore(r.ScientificContext) },
	}, now)
	for i := range items {
		items[i].ResearchQuality = orDefault(reply.Content[i].ResearchQuality, "high")
	}

	result := &models.ScienceTrackerResult{
		Field:              orDefault(reply.Field, q.Field),
		GeneratedContent:   items,
		Discoveries:        make([]models.ScientificDiscovery, 0, len(reply.Discoveries)),
		ResearchTrends:     reply.ResearchTrends,
		FutureImplications: []models.FutureImplication{},
		Sources:            normalizeSources(reply.Sources, journal, now),
		LastUpdated:        now,
		InnovationScore:    orDefaultNum(reply.InnovationScore, 80),
	}
	if result.ResearchTrends == nil {
		result.ResearchTrends = []models.ResearchTrend{}
	}
	if *q.IncludeImplications && reply.FutureImplications != nil {
		result.FutureImplications = reply.FutureImplications
	}

	for i, raw := range reply.Discoveries {
		d := raw.ScientificDiscovery
		if d.ID == "" {
			d.ID = fmt.Sprintf("discovery-%d-%d", now.UnixMilli(), i)
		}
		d.PublicationDate = parsePublished(raw.PublicationDate, now)
		d.Sources = normalizeSources(raw.Sources, journal, now)
		d.KeyFindings = orEmpty(d.KeyFindings)
		d.Limitations = orEmpty(d.Limitations)
		if d.Researchers == nil {
			d.Researchers = []models.Researcher{}
		}
		if d.Institutions == nil {
			d.Institutions = []models.Institution{}
		}
		if d.Applications == nil {
			d.Applications = []models.Application{}
		}
		d.PeerReviewStatus = orDefault(d.PeerReviewStatus, "unknown")
		d.Reproducibility = orDefault(d.Reproducibility, "unknown")
		result.Discoveries = append(result.Discoveries, d)
	}

	return &ScienceResult{Result: result, Query: q, ResearchSummary: reply.ResearchSummary}, nil
}

var (
	scienceTimeframes = map[string]string{
		"live":  "the last few hours",
		"today": "today",
		"week":  "this week",
		"month": "this month",
	}
	scienceSignificance = map[string]string{
		"breakthrough": "breakthrough discoveries and major breakthroughs",
		"major":        "major discoveries and significant findings",
		"all":          "all notable scientific developments",
	}
)

func sciencePrompt(q models.ScienceQuery) string {
	fieldContext := q.Field + " research"
	discoveryField := q.Field
	if q.Field == "all" {
		fieldContext = "all scientific fields"
		discoveryField = "medicine|physics|chemistry|biology|technology|space|climate|ai"
	}

	item := `{
      "question": "Question about scientific discovery or research",
      "answer": "Answer with scientific details and significance",
      "difficulty": "` + q.Difficulty + `",
      "scientificContext": "Specific research context and methodology",
      "confidence": 90,
      "researchQuality": "high|medium|low",
      "sources": []
    }`
	if q.ContentType != "flashcards" {
		item = `{
      "question": "Question about scientific discovery or research",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Explanation with scientific context",
      "scientificContext": "Specific research context and methodology",
      "confidence": 90,
      "researchQuality": "high|medium|low",
      "sources": []
    }`
	}

	implications := ""
	if *q.IncludeImplications {
		implications = `
  "futureImplications": [
    {"discovery": "Discovery name", "implication": "Future implication", "category": "medical|technological|environmental|social|economic", "probability": 75, "timeframe": "5-10 years", "prerequisites": ["prerequisite1"], "potentialRisks": ["risk1"], "societalImpact": "transformative|high|medium|low"}
  ],`
	}

	return fmt.Sprintf(`Track and analyze %s in %s from %s and generate %d educational %s about these scientific developments.

Use the most current scientific publications, research findings, and breakthrough discoveries available. Cover methodology, significance, key researchers and institutions, peer review status and reproducibility.

Return a JSON object with this structure:
{
  "field": "%s",
  "content": [
    %s
  ],
  "discoveries": [
    {
      "id": "discovery-1",
      "title": "Discovery title",
      "description": "Detailed description of the discovery",
      "field": "%s",
      "subfield": "Specific subfield",
      "significance": "breakthrough|high|medium|low",
      "researchers": [{"name": "Researcher name", "affiliation": "Institution", "role": "lead|co-author|contributor", "expertise": ["expertise1"]}],
      "institutions": [{"name": "Institution name", "country": "Country", "type": "university|research-institute|company|government", "reputation": 95}],
      "publicationDate": "2024-01-15T10:00:00Z",
      "journal": "Journal name",
      "methodology": "Research methodology description",
      "keyFindings": ["finding1"],
      "limitations": ["limitation1"],
      "applications": [{"area": "Application area", "description": "Application description", "timeframe": "immediate|short-term|long-term", "impact": "revolutionary|high|medium|low", "commercialPotential": 85}],
      "sources": [],
      "peerReviewStatus": "peer-reviewed|preprint|published",
      "reproducibility": "high|medium|low|unknown"
    }
  ],
  "researchTrends": [
    {"trend": "Trend description", "field": "%s", "direction": "emerging|growing|stable|declining", "momentum": 85, "keyDrivers": ["driver1"], "relatedDiscoveries": ["discovery1"], "fundingTrends": {"totalFunding": 1000000000, "fundingChange": 25.5, "majorFunders": ["funder1"], "fundingFocus": ["focus1"]}, "timeframe": "6-12 months"}
  ],%s
  "sources": [{"url": "https://example.com", "title": "Scientific publication title", "publishedDate": "2024-01-15T10:00:00Z", "reliability": 95, "sourceType": "journal|news|preprint|conference|patent"}],
  "innovationScore": 85,
  "researchSummary": "Brief summary of current research landscape"
}

Requirements:
- Use current, peer-reviewed scientific publications and reliable research sources
- Maintain scientific accuracy and rigor
- Make content appropriate for %s difficulty level
- Highlight both potential benefits and limitations of research`,
		scienceSignificance[q.Significance], fieldContext, scienceTimeframes[q.Timeframe], q.Count, q.ContentType,
		q.Field, item, discoveryField, q.Field, implications, q.Difficulty)
}
