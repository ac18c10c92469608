package models

import "time"

type GlobalEventsRequest struct {
	Region                     string `json:"region"`
	Category                   string `json:"category"`
	GenerateEducationalContent *bool  `json:"generateEducationalContent,omitempty"`
}

type GlobalEvent struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Date               string   `json:"date"`
	ImpactLevel        float64  `json:"impactLevel"`
	EducationalContext string   `json:"educationalContext"`
	RelatedTopics      []string `json:"relatedTopics"`
	TrendingScore      float64  `json:"trendingScore"`
}

type GlobalEventsDigest struct {
	CurrentEvents         []GlobalEvent `json:"currentEvents"`
	LearningOpportunities []string      `json:"learningOpportunities"`
	KeyInsights           []string      `json:"keyInsights"`
	Sources               []Source      `json:"sources"`
	GlobalRelevanceScore  float64       `json:"globalRelevanceScore"`
	LastUpdated           time.Time     `json:"lastUpdated"`
}
