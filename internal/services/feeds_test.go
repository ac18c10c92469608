package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"studyforge-backend/internal/cache"
	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/models"
)

func TestNormalizeTrendingQuery(t *testing.T) {
	tests := []struct {
		category  string
		limit     int
		wantCat   string
		wantLimit int
	}{
		{"", 0, "general", 10},
		{"science", 3, "science", 3},
		{"tech", 99, "tech", 25},
		{"tech", -4, "tech", 1},
	}

	for _, tc := range tests {
		cat, limit := NormalizeTrendingQuery(tc.category, tc.limit)
		if cat != tc.wantCat || limit != tc.wantLimit {
			t.Errorf("NormalizeTrendingQuery(%q, %d) = %q, %d; want %q, %d", tc.category, tc.limit, cat, limit, tc.wantCat, tc.wantLimit)
		}
	}
}

func TestTrending_FallsBackOnError(t *testing.T) {
	svc := NewTrendingService(&stubCompleter{err: errors.New("upstream down")}, nil, time.Minute)
	svc.now = clock

	result := svc.Trending(context.Background(), "science", 5)
	if !result.Fallback {
		t.Fatalf("Expected fallback result")
	}
	if result.Error != "upstream down" {
		t.Errorf("Expected error message carried, got %q", result.Error)
	}
	if len(result.Topics) != 3 || result.Topics[0].Score != 95 || result.Topics[0].Category != "science" {
		t.Errorf("Unexpected fallback topics: %+v", result.Topics)
	}
}

func TestTrending_NotConfiguredFallsBack(t *testing.T) {
	svc := NewTrendingService(nil, nil, time.Minute)
	result := svc.Trending(context.Background(), "", 0)
	if !result.Fallback || result.Error != llm.ErrNotConfigured.Error() {
		t.Errorf("Expected not-configured fallback, got %+v", result)
	}
}

func TestTrending_ServesFromCache(t *testing.T) {
	stub := &stubCompleter{content: `{"topics": [{"topic": "Fusion", "score": 91, "relatedKeywords": ["energy"], "sources": [{"url": "www.iter.org/news", "title": "ITER"}]}]}`}
	svc := NewTrendingService(stub, cache.NewMemory(), time.Minute)
	svc.now = clock
	ctx := context.Background()

	first := svc.Trending(ctx, "science", 1)
	if first.Cached || first.Fallback {
		t.Fatalf("Expected a fresh result, got %+v", first)
	}
	if first.Topics[0].Category != "science" {
		t.Errorf("Expected category default, got %q", first.Topics[0].Category)
	}
	if first.Topics[0].Sources[0].Domain != "" {
		t.Errorf("Expected no domain for non-http URL, got %q", first.Topics[0].Sources[0].Domain)
	}

	second := svc.Trending(ctx, "science", 1)
	if !second.Cached {
		t.Errorf("Expected cached result on second call")
	}
	if stub.calls() != 1 {
		t.Errorf("Expected one upstream call, got %d", stub.calls())
	}
}

func TestNewsLearning_QuizShape(t *testing.T) {
	stub := &stubCompleter{content: `{"newsItems": [{"headline": "Rover lands", "summary": "A rover landed.", "publishedDate": "2025-03-13T10:00:00Z",
		"sources": [{"url": "https://nasa.gov/a", "title": "NASA"}],
		"quiz": {"title": "Rover quiz", "questions": [{"question": "Where?", "options": ["Mars", "Venus"], "correctAnswer": 0}]}}]}`}
	svc := NewNewsService(stub)
	svc.now = clock

	result, err := svc.NewsLearning(context.Background(), NewsQuery{Type: "quiz", Count: 40})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Category != "technology" || result.Timeframe != "today" {
		t.Errorf("Expected defaults, got %q/%q", result.Category, result.Timeframe)
	}
	if !strings.Contains(stub.requests[0].User, "Find 20 recent") {
		t.Errorf("Expected count clamped to 20 in prompt")
	}

	item := result.Items[0]
	if !strings.HasPrefix(item.ID, "news-content-") {
		t.Errorf("Unexpected id %q", item.ID)
	}
	quiz, ok := item.GeneratedContent.(*models.Quiz)
	if !ok {
		t.Fatalf("Expected quiz content, got %T", item.GeneratedContent)
	}
	if quiz.TimeLimit != 20 || !quiz.IsCurrentEvents || quiz.ExpertiseLevel != "intermediate" {
		t.Errorf("Unexpected quiz defaults: %+v", quiz)
	}
	if quiz.Questions[0].Sources[0].Reliability != 85 {
		t.Errorf("Expected questions to inherit item sources at reliability 85")
	}
}

func TestNewsLearning_NotConfigured(t *testing.T) {
	_, err := NewNewsService(nil).NewsLearning(context.Background(), NewsQuery{})
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestGlobalEvents_ScoresRawReply(t *testing.T) {
	reply := `{"currentEvents": [{"title": "Election summit", "description": "Leaders meet on trade policy"}], "keyInsights": ["x"]}`
	svc := NewGlobalEventsService(&stubCompleter{content: reply})
	svc.now = clock

	result := svc.Events(context.Background(), models.GlobalEventsRequest{})
	if result.Fallback {
		t.Fatalf("Unexpected fallback: %s", result.Error)
	}
	// election, summit (+15 each); trade, policy (+5 each)
	if result.Digest.GlobalRelevanceScore != 100 {
		t.Errorf("Expected 100, got %v", result.Digest.GlobalRelevanceScore)
	}
	ev := result.Digest.CurrentEvents[0]
	if ev.Category != "all" || ev.TrendingScore != 100 {
		t.Errorf("Unexpected event defaults: %+v", ev)
	}
	if result.Region != "global" {
		t.Errorf("Expected region default global, got %q", result.Region)
	}
}

func TestGlobalEvents_FallbackDigest(t *testing.T) {
	svc := NewGlobalEventsService(nil)
	result := svc.Events(context.Background(), models.GlobalEventsRequest{Region: "europe"})
	if !result.Fallback || len(result.Digest.CurrentEvents) != 2 {
		t.Errorf("Expected fallback digest, got %+v", result)
	}
}

func TestKeywordScores(t *testing.T) {
	tests := []struct {
		name  string
		score func(string) float64
		text  string
		want  float64
	}{
		{"event base", eventScore, "nothing here", 60},
		{"event medium", eventScore, "a new Trade deal", 65},
		{"science high", scienceScore, "A CRISPR breakthrough", 100},
		{"science medium", scienceScore, "published discovery", 80},
		{"skill", skillScore, "Cloud and DevOps roles", 90},
		{"viral", viralScore, "educational clip with millions of views", 95},
		{"capped", viralScore, "viral trending millions breakthrough", 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.score(tc.text); got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestLearningItems_Shapes(t *testing.T) {
	two := 2
	raw := []rawItem{{Question: "Q1", Answer: "A1", SkillContext: "AI"}, {Question: "Q2", Options: []string{"a", "b", "c"}, CorrectAnswer: &two}}

	cards := learningItems(raw[:1], itemShape{prefix: "skill", flashcards: true, topic: "T", difficulty: "mixed", confidence: 85,
		trending: func(r rawItem) float64 { return skillScore(r.SkillContext) }}, fixedNow)
	if cards[0].ID != "skill-flashcard-1741944600000-0" {
		t.Errorf("Unexpected id %q", cards[0].ID)
	}
	if cards[0].TrendingnessScore != 80 || cards[0].ConfidenceScore != 85 || cards[0].CreatedAt == nil {
		t.Errorf("Unexpected flashcard defaults: %+v", cards[0])
	}

	questions := learningItems(raw[1:], itemShape{prefix: "live", confidence: 90}, fixedNow)
	if *questions[0].CorrectAnswer != 2 || questions[0].Answer != "" || questions[0].CreatedAt != nil {
		t.Errorf("Unexpected question shape: %+v", questions[0])
	}
}

func TestLiveData_CachesForUpdateInterval(t *testing.T) {
	stub := &stubCompleter{content: `{"content": [{"question": "Why did BTC move?", "answer": "ETF flows"}], "dataSnapshot": {"price": 64000}, "insights": ["volatile"]}`}
	svc := NewLiveDataService(stub, cache.NewMemory())
	svc.now = clock
	ctx := context.Background()

	q := models.LiveDataQuery{DataType: "crypto", Symbols: models.StringList{"BTC"}}
	first, err := svc.Learn(ctx, q)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first.UpdateInterval != (5 * time.Minute).Milliseconds() {
		t.Errorf("Expected 5m interval, got %d", first.UpdateInterval)
	}
	if !first.Result.NextUpdate.Equal(fixedNow.Add(5 * time.Minute)) {
		t.Errorf("Unexpected next update %v", first.Result.NextUpdate)
	}
	item := first.Result.GeneratedContent[0]
	if item.TrendingnessScore != 95 || item.Topic != "crypto - trends" {
		t.Errorf("Unexpected item defaults: %+v", item)
	}
	if !strings.Contains(stub.requests[0].User, "for cryptocurrencies: BTC") {
		t.Errorf("Expected symbols in prompt")
	}

	second, err := svc.Learn(ctx, q)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !second.Cached || stub.calls() != 1 {
		t.Errorf("Expected cached second response, calls=%d", stub.calls())
	}
}

func TestUpdateInterval(t *testing.T) {
	tests := map[string]time.Duration{
		"stocks":    5 * time.Minute,
		"crypto":    5 * time.Minute,
		"weather":   30 * time.Minute,
		"sports":    15 * time.Minute,
		"economics": time.Hour,
		"other":     30 * time.Minute,
	}
	for dataType, want := range tests {
		if got := UpdateInterval(dataType); got != want {
			t.Errorf("UpdateInterval(%q) = %v, want %v", dataType, got, want)
		}
	}
}

func TestResearch_RequiresTopic(t *testing.T) {
	stub := &stubCompleter{}
	_, err := NewResearchService(stub).Research(context.Background(), models.ResearchQuery{})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Message != "Topic is required" {
		t.Fatalf("Expected topic validation error, got %v", err)
	}
	if stub.calls() != 0 {
		t.Errorf("Expected no upstream call")
	}
}

func TestResearch_DebatePointsOnlyWhenRequested(t *testing.T) {
	reply := `{"topic": "Nuclear power", "perspectives": [{"perspective": "academic", "summary": "s", "sources": [{"url": "https://mit.edu/x", "title": "MIT"}]}],
		"debatePoints": [{"position": "pro", "argument": "low carbon"}], "allSources": [{"url": "https://iea.org", "title": "IEA"}]}`

	for _, include := range []bool{false, true} {
		svc := NewResearchService(&stubCompleter{content: reply})
		svc.now = clock
		out, err := svc.Research(context.Background(), models.ResearchQuery{Topic: "Nuclear power", IncludeDebate: include})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		res := out.Result
		if include != (res.KeyDebatePoints != nil) {
			t.Errorf("includeDebate=%v but debate points = %+v", include, res.KeyDebatePoints)
		}
		if include && (res.KeyDebatePoints[0].Strength != 70) {
			t.Errorf("Expected strength default 70, got %v", res.KeyDebatePoints[0].Strength)
		}
		p := res.Perspectives[0]
		if p.Credibility != 80 || p.Sources[0].Perspective != "academic" || p.Sources[0].Reliability != 80 {
			t.Errorf("Unexpected perspective defaults: %+v", p)
		}
		if res.Sources[0].Perspective != "general" || res.Confidence != 85 {
			t.Errorf("Unexpected source/confidence defaults: %+v %v", res.Sources[0], res.Confidence)
		}
	}
}

func TestScience_DefaultsAndImplications(t *testing.T) {
	reply := `{"content": [{"question": "What is fusion ignition?", "answer": "Net energy gain", "scientificContext": "A fusion breakthrough"}],
		"discoveries": [{"title": "Ignition", "publicationDate": "2025-01-02"}],
		"futureImplications": [{"discovery": "Ignition", "implication": "Cheap power"}]}`

	svc := NewScienceService(&stubCompleter{content: reply})
	svc.now = clock
	off := false

	out, err := svc.Track(context.Background(), models.ScienceQuery{IncludeImplications: &off})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	res := out.Result
	if len(res.FutureImplications) != 0 {
		t.Errorf("Expected implications dropped when not requested")
	}
	if res.InnovationScore != 80 || res.GeneratedContent[0].ResearchQuality != "high" {
		t.Errorf("Unexpected defaults: score=%v quality=%q", res.InnovationScore, res.GeneratedContent[0].ResearchQuality)
	}
	if res.GeneratedContent[0].TrendingnessScore != 100 {
		t.Errorf("Expected capped keyword score, got %v", res.GeneratedContent[0].TrendingnessScore)
	}
	d := res.Discoveries[0]
	if d.PeerReviewStatus != "unknown" || d.Reproducibility != "unknown" {
		t.Errorf("Unexpected discovery defaults: %+v", d)
	}
}

func TestSkills_Defaults(t *testing.T) {
	reply := `{"content": [{"question": "Which skill is rising?", "answer": "Cloud security", "skillContext": "AI and cloud hiring", "sources": [{"url": "https://jobs.example.com/report", "title": "Report"}]}],
		"sources": [{"url": "https://stats.example.org", "title": "Labor stats", "reliability": 95}],
		"marketSummary": "Hiring is steady"}`

	svc := NewSkillsService(&stubCompleter{content: reply})
	svc.now = clock

	out, err := svc.Analyze(context.Background(), models.SkillDemandQuery{Role: "Engineer"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Query.Timeframe != "current" || out.Query.AnalysisType != "skills" || out.Query.ContentType != "flashcards" || out.Query.Count != 8 {
		t.Errorf("Unexpected query defaults: %+v", out.Query)
	}
	if out.MarketSummary != "Hiring is steady" {
		t.Errorf("Expected market summary passed through, got %q", out.MarketSummary)
	}

	res := out.Result
	if res.Industry != "Technology" || res.Role != "Engineer" || res.Location != "Global" {
		t.Errorf("Unexpected scope defaults: %q %q %q", res.Industry, res.Role, res.Location)
	}
	if res.TrendingScore != 80 {
		t.Errorf("Expected trending score 80, got %v", res.TrendingScore)
	}
	if res.SkillAnalysis.TopSkills == nil || res.SkillAnalysis.DemandTrends == nil || res.MarketInsights == nil || res.LearningRecommendations == nil {
		t.Errorf("Expected empty slices rather than nil: %+v", res.SkillAnalysis)
	}
	if res.Sources[0].DataType != "skill-demand" || res.Sources[0].Reliability != 95 {
		t.Errorf("Unexpected top-level source: %+v", res.Sources[0])
	}

	card := res.GeneratedContent[0]
	if card.ConfidenceScore != 85 || card.Topic != "Skill Demand - skills" || card.Difficulty != "mixed" {
		t.Errorf("Unexpected card defaults: %+v", card)
	}
	if card.TrendingnessScore != 90 {
		t.Errorf("Expected keyword score 90, got %v", card.TrendingnessScore)
	}
	if src := card.Sources[0]; src.DataType != "skill-demand" || src.Reliability != 85 || src.Domain != "jobs.example.com" {
		t.Errorf("Unexpected card source: %+v", src)
	}
}

func TestSkills_QuizShape(t *testing.T) {
	reply := `{"content": [{"question": "Q", "options": ["a", "b"], "explanation": "E"}], "trendingScore": 92}`
	svc := NewSkillsService(&stubCompleter{content: reply})
	svc.now = clock

	out, err := svc.Analyze(context.Background(), models.SkillDemandQuery{ContentType: "quiz", Industry: "Healthcare"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	item := out.Result.GeneratedContent[0]
	if item.CorrectAnswer == nil || *item.CorrectAnswer != 0 || len(item.Options) != 2 || item.Answer != "" {
		t.Errorf("Expected question shape, got %+v", item)
	}
	if out.Result.TrendingScore != 92 || out.Result.Industry != "Healthcare" {
		t.Errorf("Expected explicit values kept, got %v %q", out.Result.TrendingScore, out.Result.Industry)
	}
}

func TestViral_Defaults(t *testing.T) {
	reply := `{"content": [{"question": "Why did it spread?", "answer": "Clear visuals", "viralContext": "An educational explainer"}],
		"viralContent": [{"title": "Cloud chamber at home", "platform": "tiktok", "factCheck": {"sources": [{"url": "https://a.example.com"}]}}]}`

	svc := NewViralService(&stubCompleter{content: reply})
	svc.now = clock

	out, err := svc.Analyze(context.Background(), models.ViralAnalysisQuery{GenerateContent: "both"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	q := out.Query
	if q.Platform != "all" || q.ContentType != "all" || q.Timeframe != "today" || q.ViralityThreshold != "trending" || q.AnalysisDepth != "detailed" {
		t.Errorf("Unexpected query defaults: %+v", q)
	}

	res := out.Result
	if res.ViralScore != 75 {
		t.Errorf("Expected viral score 75, got %v", res.ViralScore)
	}

	card := res.GeneratedContent[0]
	if card.ID != fmt.Sprintf("viral-content-%d-0", fixedNow.UnixMilli()) {
		t.Errorf("Unexpected id %q", card.ID)
	}
	if card.Answer != "Clear visuals" || card.EducationalValue != "medium" || card.Topic != "Viral Content - all" {
		t.Errorf("Expected flashcard shape for both, got %+v", card)
	}
	if card.TrendingnessScore != 65 {
		t.Errorf("Expected keyword score 65, got %v", card.TrendingnessScore)
	}

	vc := res.ViralContent[0]
	if vc.Creator.Username != "unknown" || vc.Creator.Influence != "medium" {
		t.Errorf("Unexpected creator defaults: %+v", vc.Creator)
	}
	if vc.EducationalValue.Score != 50 || vc.EducationalValue.Applicability != "medium" {
		t.Errorf("Unexpected educational value defaults: %+v", vc.EducationalValue)
	}
	if vc.FactCheck.Status != "unverified" || vc.FactCheck.Confidence != 70 {
		t.Errorf("Unexpected fact check defaults: %+v", vc.FactCheck)
	}
	if vc.FactCheck.Sources[0].Platform != "tiktok" || vc.FactCheck.Sources[0].Reliability != 80 {
		t.Errorf("Unexpected fact check source: %+v", vc.FactCheck.Sources[0])
	}
	if vc.ContentCategory != "all" || !vc.Timestamp.Equal(fixedNow) {
		t.Errorf("Unexpected category/timestamp: %q %v", vc.ContentCategory, vc.Timestamp)
	}
}

func TestViral_QuizShape(t *testing.T) {
	reply := `{"content": [{"question": "Q", "options": ["a", "b", "c"], "correctAnswer": 2, "viralContext": "trending", "educationalValue": "high"}], "viralScore": 88}`
	svc := NewViralService(&stubCompleter{content: reply})
	svc.now = clock

	out, err := svc.Analyze(context.Background(), models.ViralAnalysisQuery{GenerateContent: "quiz", ContentType: "science"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	item := out.Result.GeneratedContent[0]
	if item.CorrectAnswer == nil || *item.CorrectAnswer != 2 || item.Answer != "" {
		t.Errorf("Expected question shape, got %+v", item)
	}
	if item.Topic != "Viral Content - science" || item.CreatedAt == nil || item.TrendingnessScore != 70 || item.EducationalValue != "high" {
		t.Errorf("Expected shared topic and score on questions, got %+v", item)
	}
	if out.Result.ViralScore != 88 {
		t.Errorf("Expected explicit viral score kept, got %v", out.Result.ViralScore)
	}
}
