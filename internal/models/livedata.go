package models

import (
	"encoding/json"
	"strings"
	"time"
)

// StringList decodes either a JSON array of strings or a comma separated string.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*l = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	*l = out
	return nil
}

type LiveDataQuery struct {
	DataType     string     `json:"dataType"` // "stocks" | "crypto" | "weather" | "sports" | "economics"
	Symbols      StringList `json:"symbols,omitempty"`
	Region       string     `json:"region,omitempty"`
	AnalysisType string     `json:"analysisType"` // "trends" | "predictions" | "explanations" | "comparisons"
	ContentType  string     `json:"contentType"`
	Count        int        `json:"count"`
	Difficulty   string     `json:"difficulty"`
}

type DataTrend struct {
	Metric       string  `json:"metric"`
	Direction    string  `json:"direction"` // "up" | "down" | "stable"
	Magnitude    float64 `json:"magnitude"`
	Timeframe    string  `json:"timeframe"`
	Significance string  `json:"significance"`
}

// KeyMetric values are numbers or strings depending on the data type.
type KeyMetric struct {
	Name    string      `json:"name"`
	Value   interface{} `json:"value"`
	Change  string      `json:"change,omitempty"`
	Context string      `json:"context"`
}

type DataSnapshot struct {
	Timestamp  time.Time       `json:"timestamp"`
	Data       json.RawMessage `json:"data"`
	Trends     []DataTrend     `json:"trends"`
	KeyMetrics []KeyMetric     `json:"keyMetrics"`
}

type LiveDataResult struct {
	DataType         string         `json:"dataType"`
	ContentType      string         `json:"contentType"`
	GeneratedContent []LearningItem `json:"generatedContent"`
	DataSnapshot     DataSnapshot   `json:"dataSnapshot"`
	Insights         []string       `json:"insights"`
	Sources          []Source       `json:"sources"`
	LastUpdated      time.Time      `json:"lastUpdated"`
	NextUpdate       time.Time      `json:"nextUpdate"`
}
