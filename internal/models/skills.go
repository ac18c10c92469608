package models

import "time"

type SkillDemandQuery struct {
	Industry     string `json:"industry,omitempty"`
	Role         string `json:"role,omitempty"`
	Location     string `json:"location,omitempty"`
	Timeframe    string `json:"timeframe"`    // "current" | "emerging" | "declining" | "future"
	AnalysisType string `json:"analysisType"` // "skills" | "salaries" | "trends" | "learning-paths"
	ContentType  string `json:"contentType"`
	Count        int    `json:"count"`
	Difficulty   string `json:"difficulty"`
}

type Skill struct {
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	DemandLevel         string  `json:"demandLevel"`
	GrowthRate          float64 `json:"growthRate"`
	AverageSalaryImpact float64 `json:"averageSalaryImpact"`
	JobPostings         float64 `json:"jobPostings"`
	LearningDifficulty  string  `json:"learningDifficulty"`
	TimeToLearn         string  `json:"timeToLearn"`
}

type SalaryImpact struct {
	Skill              string  `json:"skill"`
	SalaryIncrease     float64 `json:"salaryIncrease"`
	PercentageIncrease float64 `json:"percentageIncrease"`
	MarketData         string  `json:"marketData"`
}

type DemandTrend struct {
	Skill            string  `json:"skill"`
	Trend            string  `json:"trend"`
	ChangePercentage float64 `json:"changePercentage"`
	Timeframe        string  `json:"timeframe"`
	Confidence       float64 `json:"confidence"`
}

type SkillAnalysis struct {
	TopSkills       []Skill        `json:"topSkills"`
	EmergingSkills  []Skill        `json:"emergingSkills"`
	DecliningSkills []Skill        `json:"decliningSkills"`
	SalaryImpact    []SalaryImpact `json:"salaryImpact"`
	DemandTrends    []DemandTrend  `json:"demandTrends"`
}

type MarketInsight struct {
	Insight   string   `json:"insight"`
	Category  string   `json:"category"`
	Impact    string   `json:"impact"`
	Timeframe string   `json:"timeframe"`
	Sources   []string `json:"sources"`
}

type LearningResource struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Provider string `json:"provider,omitempty"`
	URL      string `json:"url,omitempty"`
	Cost     string `json:"cost"`
	Duration string `json:"duration"`
}

type LearningPath struct {
	Skill         string             `json:"skill"`
	Priority      string             `json:"priority"`
	EstimatedTime string             `json:"estimatedTime"`
	Resources     []LearningResource `json:"resources"`
	Prerequisites []string           `json:"prerequisites"`
	CareerImpact  string             `json:"careerImpact"`
}

type SkillDemandResult struct {
	Industry                string          `json:"industry"`
	Role                    string          `json:"role"`
	Location                string          `json:"location"`
	GeneratedContent        []LearningItem  `json:"generatedContent"`
	SkillAnalysis           SkillAnalysis   `json:"skillAnalysis"`
	MarketInsights          []MarketInsight `json:"marketInsights"`
	LearningRecommendations []LearningPath  `json:"learningRecommendations"`
	Sources                 []Source        `json:"sources"`
	LastUpdated             time.Time       `json:"lastUpdated"`
	TrendingScore           float64         `json:"trendingScore"`
}
