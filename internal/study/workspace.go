package study

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"

	"studyforge-backend/internal/models"
)

const (
	maxNewsContent      = 50
	maxFactCheckResults = 100
)

// Workspace is the learning dashboard state: preferences, followed trends,
// saved news material and interaction counts.
type Workspace struct {
	ID               string                    `json:"id"`
	Preferences      models.StudyPreferences   `json:"preferences"`
	TrendingTopics   []models.TrendingTopic    `json:"trendingTopics"`
	NewsContent      []models.NewsBasedContent `json:"newsContent"`
	FactCheckResults []models.FactCheckResult  `json:"factCheckResults"`
	TopicPopularity  map[string]int            `json:"topicPopularity"`
	CurrentSources   []models.Source           `json:"currentSources"`
	LastActive       time.Time                 `json:"lastActive"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
}

func DefaultPreferences() models.StudyPreferences {
	return models.StudyPreferences{
		IncludeCurrentEvents:  true,
		SourceRecency:         "week",
		ExpertiseLevel:        "intermediate",
		IndustryFocus:         []string{},
		FactCheckLevel:        "thorough",
		AutoRefresh:           true,
		TrendingnessThreshold: 70,
	}
}

func NewWorkspace(id string, now time.Time) *Workspace {
	w := &Workspace{ID: id, Preferences: DefaultPreferences(), LastActive: now}
	w.ClearAll()
	w.TopicPopularity = map[string]int{}
	return w
}

// UpdatePreferences merges a partial preferences document over the current
// preferences.
func (w *Workspace) UpdatePreferences(patch []byte) error {
	prefs := w.Preferences
	prefs.IndustryFocus = slices.Clone(prefs.IndustryFocus)
	if err := json.Unmarshal(patch, &prefs); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}
	if prefs.IndustryFocus == nil {
		prefs.IndustryFocus = []string{}
	}
	w.Preferences = prefs
	return nil
}

// AddTrendingTopic replaces a topic with the same name or appends it, keeping
// the list ordered by score, highest first.
func (w *Workspace) AddTrendingTopic(topic models.TrendingTopic) {
	i := slices.IndexFunc(w.TrendingTopics, func(t models.TrendingTopic) bool { return t.Topic == topic.Topic })
	if i >= 0 {
		w.TrendingTopics[i] = topic
	} else {
		w.TrendingTopics = append(w.TrendingTopics, topic)
	}
	sort.SliceStable(w.TrendingTopics, func(a, b int) bool {
		return w.TrendingTopics[a].Score > w.TrendingTopics[b].Score
	})
}

// AddNewsContent prepends an item and keeps the latest 50.
func (w *Workspace) AddNewsContent(content models.NewsBasedContent) {
	w.NewsContent = prependCapped(w.NewsContent, content, maxNewsContent)
}

// AddFactCheckResult prepends a result and keeps the latest 100.
func (w *Workspace) AddFactCheckResult(result models.FactCheckResult) {
	w.FactCheckResults = prependCapped(w.FactCheckResults, result, maxFactCheckResults)
}

func prependCapped[T any](items []T, item T, limit int) []T {
	out := make([]T, 0, min(len(items)+1, limit))
	out = append(out, item)
	for _, it := range items {
		if len(out) == limit {
			break
		}
		out = append(out, it)
	}
	return out
}

func (w *Workspace) TrackTopicInteraction(topic string, now time.Time) {
	if w.TopicPopularity == nil {
		w.TopicPopularity = map[string]int{}
	}
	w.TopicPopularity[topic]++
	w.LastActive = now
}

func (w *Workspace) UpdateSources(sources []models.Source) {
	if sources == nil {
		sources = []models.Source{}
	}
	w.CurrentSources = sources
}

// FilteredTrendingTopics keeps topics at or above the trendingness threshold
// and, when an industry focus is set, in one of those categories.
func (w *Workspace) FilteredTrendingTopics() []models.TrendingTopic {
	out := []models.TrendingTopic{}
	for _, t := range w.TrendingTopics {
		if t.Score < w.Preferences.TrendingnessThreshold {
			continue
		}
		focus := w.Preferences.IndustryFocus
		if len(focus) > 0 && !slices.Contains(focus, t.Category) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ClearAll drops the collected content. Preferences and interaction counts stay.
func (w *Workspace) ClearAll() {
	w.TrendingTopics = []models.TrendingTopic{}
	w.NewsContent = []models.NewsBasedContent{}
	w.FactCheckResults = []models.FactCheckResult{}
	w.CurrentSources = []models.Source{}
}
