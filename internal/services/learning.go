package services

import (
	"fmt"
	"time"

	"studyforge-backend/internal/models"
)

// rawItem is one generated flashcard or question as the live feeds return it.
type rawItem struct {
	Question          string      `json:"question"`
	Answer            string      `json:"answer"`
	Options           []string    `json:"options"`
	CorrectAnswer     *int        `json:"correctAnswer"`
	Explanation       string      `json:"explanation"`
	Difficulty        string      `json:"difficulty"`
	Sources           []rawSource `json:"sources"`
	Confidence        float64     `json:"confidence"`
	ScientificContext string      `json:"scientificContext"`
	SkillContext      string      `json:"skillContext"`
	ViralContext      string      `json:"viralContext"`
	DataContext       string      `json:"dataContext"`
	ResearchQuality   string      `json:"researchQuality"`
	EducationalValue  string      `json:"educationalValue"`
	FactCheckStatus   string      `json:"factCheckStatus"`
}

// itemShape carries the per-feed defaults for learningItems.
type itemShape struct {
	prefix     string // id prefix, e.g. "science"
	flashcards bool
	topic      string
	difficulty string
	confidence float64
	sources    sourceOptions
	// trending scores a flashcard; nil leaves the score unset.
	trending func(rawItem) float64
}

func learningItems(raw []rawItem, shape itemShape, now time.Time) []models.LearningItem {
	ts := now.UnixMilli()
	kind := "question"
	if shape.flashcards {
		kind = "flashcard"
	}

	items := make([]models.LearningItem, 0, len(raw))
	for i, r := range raw {
		item := models.LearningItem{
			ID:                fmt.Sprintf("%s-%s-%d-%d", shape.prefix, kind, ts, i),
			Question:          r.Question,
			Sources:           normalizeSources(r.Sources, shape.sources, now),
			ScientificContext: r.ScientificContext,
			SkillContext:      r.SkillContext,
			ViralContext:      r.ViralContext,
			DataContext:       r.DataContext,
			FactCheckStatus:   orDefault(r.FactCheckStatus, "verified"),
			ConfidenceScore:   orDefaultNum(r.Confidence, shape.confidence),
		}
		if shape.flashcards {
			created := now
			item.Answer = r.Answer
			item.Difficulty = orDefault(r.Difficulty, shape.difficulty)
			item.Topic = shape.topic
			item.CreatedAt = &created
			if shape.trending != nil {
				item.TrendingnessScore = shape.trending(r)
			}
		} else {
			answer := 0
			if r.CorrectAnswer != nil {
				answer = *r.CorrectAnswer
			}
			item.Options = orEmpty(r.Options)
			item.CorrectAnswer = &answer
			item.Explanation = r.Explanation
		}
		items = append(items, item)
	}
	return items
}

// feedDefaults normalizes the fields every live feed shares.
func feedDefaults(contentType *string, count *int, difficulty *string) {
	if *contentType == "" {
		*contentType = "flashcards"
	}
	if *count == 0 {
		*count = 8
	}
	*count = clamp(*count, 1, 50)
	if *difficulty == "" {
		*difficulty = "mixed"
	}
}
