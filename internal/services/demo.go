package services

import (
	"fmt"
	"math/rand/v2"
	"time"

	"studyforge-backend/internal/models"
)

type demoTemplate struct {
	question   string
	answer     string
	options    []string
	trending   float64
	confidence float64
	related    []string
}

func demoTemplates(topic string) []demoTemplate {
	return []demoTemplate{
		{
			question:   fmt.Sprintf("What is the main concept behind %s?", topic),
			answer:     fmt.Sprintf("%s is a fundamental concept that involves understanding the key principles and applications in its field.", topic),
			options:    []string{"Its key principles and applications", "A passing trend", "An unrelated field", "None of the above"},
			trending:   70,
			confidence: 80,
			related:    []string{"Related to " + topic, "Current trends"},
		},
		{
			question:   fmt.Sprintf("How does %s impact modern society?", topic),
			answer:     fmt.Sprintf("%s has significant implications for how we understand and interact with the world around us, influencing various aspects of daily life.", topic),
			options:    []string{"It has no measurable impact", "It shapes many aspects of daily life", "Only historians study it", "It is purely theoretical"},
			trending:   75,
			confidence: 85,
			related:    []string{topic + " applications", "Social impact"},
		},
		{
			question:   fmt.Sprintf("What are the key benefits of understanding %s?", topic),
			answer:     fmt.Sprintf("Understanding %s provides valuable insights that can be applied in various contexts, enhancing problem-solving abilities and knowledge.", topic),
			options:    []string{"There are no benefits", "Memorising trivia", "Insights that improve problem-solving", "Passing a single exam"},
			trending:   80,
			confidence: 90,
			related:    []string{"Benefits of " + topic, "Learning outcomes"},
		},
	}
}

// demoCorrect is the correct option index of each template question.
var demoCorrect = []int{0, 1, 2}

func demoDifficulty(d string) string {
	switch d {
	case "easy", "beginner":
		return "easy"
	case "hard", "advanced", "expert":
		return "hard"
	default:
		return "medium"
	}
}

// demoContent answers generate requests when no LLM is configured.
func demoContent(req models.GenerateRequest, now time.Time) *models.GenerateResult {
	ts := now.UnixMilli()
	difficulty := demoDifficulty(req.Difficulty)
	templates := demoTemplates(req.Topic)

	result := &models.GenerateResult{
		Sources:           []models.Source{},
		TrendingnessScore: 70,
		FactCheckResults:  []models.FactCheckResult{},
		RelatedTopics:     []string{"Related to " + req.Topic, "Demo content"},
		LastUpdated:       now,
		ContentFreshness:  orDefault(req.ContentFreshness, "demo"),
		IsDemo:            true,
		Provider:          "demo",
	}

	if req.Type == "quiz" {
		quiz := &models.Quiz{
			ID:                fmt.Sprintf("demo-quiz-%d", ts),
			Title:             fmt.Sprintf("%s Demo Quiz", req.Topic),
			Description:       fmt.Sprintf("A demo quiz about %s. Configure an API key for generated content.", req.Topic),
			Topic:             req.Topic,
			TimeLimit:         30,
			CreatedAt:         now,
			Sources:           []models.Source{},
			LastUpdated:       now,
			TrendingnessScore: 70,
			IsCurrentEvents:   req.IncludeCurrentEvents,
			ExpertiseLevel:    expertiseFor(req.TargetAudience),
		}
		for i := 1; i <= req.Count; i++ {
			q := models.QuizQuestion{
				ID:              fmt.Sprintf("demo-%d-%d", ts, i),
				Sources:         []models.Source{},
				FactCheckStatus: "verified",
			}
			if i <= len(templates) {
				t := templates[i-1]
				q.Question = t.question
				q.Options = t.options
				q.CorrectAnswer = demoCorrect[i-1]
				q.Explanation = t.answer
				q.ConfidenceScore = t.confidence
				q.RelatedTopics = t.related
			} else {
				q.Question = fmt.Sprintf("Demo question %d about %s?", i, req.Topic)
				q.Options = []string{"Option A", "Option B", "Option C", "Option D"}
				q.Explanation = fmt.Sprintf("This is a demo answer about %s. In a real implementation, this would contain detailed information about the topic.", req.Topic)
				q.ConfidenceScore = float64(70 + rand.IntN(20))
				q.RelatedTopics = []string{fmt.Sprintf("Demo topic %d", i), "Related to " + req.Topic}
			}
			quiz.Questions = append(quiz.Questions, q)
		}
		result.Quiz = quiz
		return result
	}

	cards := make([]models.Flashcard, 0, req.Count)
	for i := 1; i <= req.Count; i++ {
		card := models.Flashcard{
			ID:              fmt.Sprintf("demo-%d-%d", ts, i),
			Difficulty:      difficulty,
			Topic:           req.Topic,
			CreatedAt:       now,
			Sources:         []models.Source{},
			LastUpdated:     now,
			FactCheckStatus: "verified",
		}
		if i <= len(templates) {
			t := templates[i-1]
			card.Question = t.question
			card.Answer = t.answer
			card.TrendingnessScore = t.trending
			card.ConfidenceScore = t.confidence
			card.RelatedCurrentTopics = t.related
		} else {
			card.Question = fmt.Sprintf("Demo question %d about %s?", i, req.Topic)
			card.Answer = fmt.Sprintf("This is a demo answer about %s. In a real implementation, this would contain detailed information about the topic.", req.Topic)
			card.TrendingnessScore = float64(60 + rand.IntN(30))
			card.ConfidenceScore = float64(70 + rand.IntN(20))
			card.RelatedCurrentTopics = []string{fmt.Sprintf("Demo topic %d", i), "Related to " + req.Topic}
		}
		cards = append(cards, card)
	}
	result.Flashcards = cards
	return result
}
