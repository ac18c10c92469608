package models

import "time"

type ResearchQuery struct {
	Topic         string   `json:"topic"`
	Perspectives  []string `json:"perspectives"` // "academic" | "industry" | "news" | "social"
	Timeframe     string   `json:"timeframe"`
	Depth         string   `json:"depth"` // "surface" | "detailed" | "comprehensive"
	IncludeDebate bool     `json:"includeDebate"`
}

type PerspectiveAnalysis struct {
	Perspective string   `json:"perspective"`
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"keyPoints"`
	Sources     []Source `json:"sources"`
	Bias        string   `json:"bias,omitempty"`
	Credibility float64  `json:"credibility"`
}

type DebatePoint struct {
	Position string   `json:"position"` // "pro" | "con" | "neutral"
	Argument string   `json:"argument"`
	Evidence []string `json:"evidence"`
	Strength float64  `json:"strength"`
	Sources  []Source `json:"sources"`
}

type ResearchResult struct {
	Topic           string                `json:"topic"`
	Perspectives    []PerspectiveAnalysis `json:"perspectives"`
	Synthesis       string                `json:"synthesis"`
	KeyDebatePoints []DebatePoint         `json:"keyDebatePoints,omitempty"`
	Sources         []Source              `json:"sources"`
	Confidence      float64               `json:"confidence"`
	LastUpdated     time.Time             `json:"lastUpdated"`
}
