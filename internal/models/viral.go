package models

import "time"

type ViralAnalysisQuery struct {
	Platform          string `json:"platform"`          // "all" | "twitter" | "tiktok" | "youtube" | "instagram" | "reddit"
	ContentType       string `json:"contentType"`       // "all" | "educational" | "news" | ...
	Timeframe         string `json:"timeframe"`         // "live" | "today" | "week" | "month"
	ViralityThreshold string `json:"viralityThreshold"` // "trending" | "viral" | "mega-viral"
	AnalysisDepth     string `json:"analysisDepth"`     // "surface" | "detailed" | "comprehensive"
	GenerateContent   string `json:"generateContent"`   // "flashcards" | "quiz" | "both"
	Count             int    `json:"count"`
	Difficulty        string `json:"difficulty"`
}

type Creator struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName,omitempty"`
	Followers   float64  `json:"followers"`
	Verified    bool     `json:"verified"`
	Influence   string   `json:"influence"`
	Expertise   []string `json:"expertise"`
}

type ContentMetrics struct {
	Views          float64   `json:"views"`
	Likes          float64   `json:"likes"`
	Shares         float64   `json:"shares"`
	Comments       float64   `json:"comments"`
	EngagementRate float64   `json:"engagementRate"`
	ViralityScore  float64   `json:"viralityScore"`
	GrowthRate     float64   `json:"growthRate"`
	PeakTime       time.Time `json:"peakTime"`
}

type ViralityFactor struct {
	Factor       string  `json:"factor"`
	Impact       string  `json:"impact"`
	Description  string  `json:"description"`
	Contribution float64 `json:"contribution"`
}

type EducationalValue struct {
	Score              float64  `json:"score"`
	LearningObjectives []string `json:"learningObjectives"`
	KeyTakeaways       []string `json:"keyTakeaways"`
	Misconceptions     []string `json:"misconceptions,omitempty"`
	FurtherReading     []string `json:"furtherReading"`
	Applicability      string   `json:"applicability"`
}

type ContentFactCheck struct {
	Status      string   `json:"status"` // "verified" | "partially-true" | "misleading" | "false" | "unverified"
	Confidence  float64  `json:"confidence"`
	Sources     []Source `json:"sources"`
	Corrections []string `json:"corrections,omitempty"`
	Context     string   `json:"context"`
}

type ViralContent struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Platform         string           `json:"platform"`
	Creator          Creator          `json:"creator"`
	Metrics          ContentMetrics   `json:"metrics"`
	ViralityFactors  []ViralityFactor `json:"viralityFactors"`
	EducationalValue EducationalValue `json:"educationalValue"`
	FactCheck        ContentFactCheck `json:"factCheck"`
	RelatedTopics    []string         `json:"relatedTopics"`
	Timestamp        time.Time        `json:"timestamp"`
	URL              string           `json:"url,omitempty"`
	ContentCategory  string           `json:"contentCategory"`
}

type EmergingTrend struct {
	Trend          string   `json:"trend"`
	Momentum       float64  `json:"momentum"`
	Platforms      []string `json:"platforms"`
	Demographics   []string `json:"demographics"`
	Timeframe      string   `json:"timeframe"`
	RelatedContent []string `json:"relatedContent"`
}

type ViralPattern struct {
	Pattern       string   `json:"pattern"`
	Frequency     float64  `json:"frequency"`
	Effectiveness float64  `json:"effectiveness"`
	Examples      []string `json:"examples"`
	Applicability []string `json:"applicability"`
}

type PlatformInsight struct {
	Platform             string   `json:"platform"`
	ViralCharacteristics []string `json:"viralCharacteristics"`
	OptimalTiming        string   `json:"optimalTiming"`
	ContentFormats       []string `json:"contentFormats"`
	AudiencePreferences  []string `json:"audiencePreferences"`
}

type AudienceAnalysis struct {
	PrimaryDemographics []string `json:"primaryDemographics"`
	Interests           []string `json:"interests"`
	EngagementPatterns  []string `json:"engagementPatterns"`
	LearningPreferences []string `json:"learningPreferences"`
	ContentConsumption  []string `json:"contentConsumption"`
}

type PredictedTrend struct {
	Prediction  string   `json:"prediction"`
	Probability float64  `json:"probability"`
	Timeframe   string   `json:"timeframe"`
	Indicators  []string `json:"indicators"`
	Potential   string   `json:"potential"`
}

type TrendAnalysis struct {
	EmergingTrends   []EmergingTrend   `json:"emergingTrends"`
	ViralPatterns    []ViralPattern    `json:"viralPatterns"`
	PlatformInsights []PlatformInsight `json:"platformInsights"`
	AudienceAnalysis AudienceAnalysis  `json:"audienceAnalysis"`
	PredictedTrends  []PredictedTrend  `json:"predictedTrends"`
}

type EducationalInsight struct {
	Insight      string   `json:"insight"`
	Category     string   `json:"category"`
	Impact       string   `json:"impact"`
	Applications []string `json:"applications"`
	Evidence     []string `json:"evidence"`
}

type ViralityMetrics struct {
	TotalViralContent       float64  `json:"totalViralContent"`
	AverageViralityScore    float64  `json:"averageViralityScore"`
	TopPerformingCategories []string `json:"topPerformingCategories"`
	PeakViralTimes          []string `json:"peakViralTimes"`
	CrossPlatformTrends     []string `json:"crossPlatformTrends"`
	EducationalViralContent float64  `json:"educationalViralContent"`
}

type ViralAnalysisResult struct {
	Platform            string               `json:"platform"`
	ContentType         string               `json:"contentType"`
	GeneratedContent    []LearningItem       `json:"generatedContent"`
	ViralContent        []ViralContent       `json:"viralContent"`
	TrendAnalysis       TrendAnalysis        `json:"trendAnalysis"`
	EducationalInsights []EducationalInsight `json:"educationalInsights"`
	ViralityMetrics     ViralityMetrics      `json:"viralityMetrics"`
	Sources             []Source             `json:"sources"`
	LastUpdated         time.Time            `json:"lastUpdated"`
	ViralScore          float64              `json:"viralScore"`
}
