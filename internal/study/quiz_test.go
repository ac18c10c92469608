package study

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"studyforge-backend/internal/models"
)

var start = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleQuiz(timeLimit int) *models.Quiz {
	return &models.Quiz{
		ID:        "quiz-1",
		TimeLimit: timeLimit,
		Questions: []models.QuizQuestion{
			{ID: "q1", Options: []string{"a", "b"}, CorrectAnswer: 0},
			{ID: "q2", Options: []string{"a", "b"}, CorrectAnswer: 1},
			{ID: "q3", Options: []string{"a", "b"}, CorrectAnswer: 1},
		},
	}
}

func TestQuizSession_StartArmsTimer(t *testing.T) {
	s := NewQuizSession("s1", sampleQuiz(0))
	if err := s.Start(start); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.State != QuizActive || s.TimeRemaining != 1800 {
		t.Errorf("Expected active with default 30 minutes, got %s/%d", s.State, s.TimeRemaining)
	}

	s = NewQuizSession("s2", sampleQuiz(5))
	s.Start(start)
	if s.TimeRemaining != 300 {
		t.Errorf("Expected 300 seconds, got %d", s.TimeRemaining)
	}

	if err := NewQuizSession("s3", nil).Start(start); !errors.Is(err, ErrNoQuiz) {
		t.Errorf("Expected ErrNoQuiz, got %v", err)
	}
}

func TestQuizSession_AnswerReplacesEarlier(t *testing.T) {
	s := NewQuizSession("s1", sampleQuiz(10))
	s.Start(start)

	s.Answer(0, 1, 4)
	s.Answer(1, 1, 3)
	s.Answer(0, 0, 6)

	want := []models.UserAnswer{
		{QuestionIndex: 1, QuestionID: "q2", SelectedAnswer: 1, IsCorrect: true, TimeSpent: 3},
		{QuestionIndex: 0, QuestionID: "q1", SelectedAnswer: 0, IsCorrect: true, TimeSpent: 6},
	}
	if diff := cmp.Diff(want, s.Answers); diff != "" {
		t.Errorf("Answers mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Answer(3, 0, 0); !errors.Is(err, ErrQuestionMissing) {
		t.Errorf("Expected ErrQuestionMissing, got %v", err)
	}
}

func TestQuizSession_AnswersWithoutQuestionIDs(t *testing.T) {
	s := NewQuizSession("s1", &models.Quiz{
		ID: "quiz-1",
		Questions: []models.QuizQuestion{
			{Options: []string{"a", "b"}, CorrectAnswer: 0},
			{Options: []string{"a", "b"}, CorrectAnswer: 1},
		},
	})
	s.Start(start)
	s.Answer(0, 0, 2)
	s.Answer(1, 1, 2)

	result := s.Results(start)
	if len(result.Answers) != 2 || result.CorrectAnswers != 2 || result.Score != 100 {
		t.Errorf("Expected both answers kept and scored 100, got %d answers, %d correct, score %d",
			len(result.Answers), result.CorrectAnswers, result.Score)
	}
}

func TestQuizSession_NavigationCompletesAtEnd(t *testing.T) {
	s := NewQuizSession("s1", sampleQuiz(10))
	s.Start(start)

	s.Previous()
	if s.CurrentQuestionIndex != 0 {
		t.Errorf("Expected Previous to stop at 0")
	}
	s.GoTo(2)
	s.GoTo(9)
	if s.CurrentQuestionIndex != 2 {
		t.Errorf("Expected GoTo(2), got %d", s.CurrentQuestionIndex)
	}

	s.Next(start.Add(time.Minute))
	if s.State != QuizCompleted || s.CompletedAt == nil || s.CurrentQuestionIndex != 2 {
		t.Errorf("Expected completion after last question, got %+v", s)
	}
}

func TestQuizSession_TickCompletesAtZero(t *testing.T) {
	s := NewQuizSession("s1", sampleQuiz(1))
	s.Start(start)

	s.Tick(59, start)
	if s.TimeRemaining != 1 || s.State != QuizActive {
		t.Fatalf("Expected 1 second left, got %d", s.TimeRemaining)
	}
	s.Tick(5, start.Add(time.Minute))
	if s.TimeRemaining != 0 || s.State != QuizCompleted {
		t.Errorf("Expected completed at zero, got %d/%s", s.TimeRemaining, s.State)
	}

	s.Tick(1, start.Add(2*time.Minute))
	if !s.CompletedAt.Equal(start.Add(time.Minute)) {
		t.Errorf("Expected completion time unchanged by later ticks")
	}
}

func TestQuizSession_Results(t *testing.T) {
	s := NewQuizSession("s1", sampleQuiz(10))
	if s.Results(start) != nil {
		t.Fatalf("Expected nil results before any answer")
	}

	s.Start(start)
	s.Answer(0, 0, 5)
	s.Answer(1, 0, 5)
	s.Complete(start.Add(90 * time.Second))

	want := &models.QuizResult{
		QuizID:         "quiz-1",
		Score:          33,
		TotalQuestions: 3,
		CorrectAnswers: 1,
		Answers: []models.UserAnswer{
			{QuestionIndex: 0, QuestionID: "q1", SelectedAnswer: 0, IsCorrect: true, TimeSpent: 5},
			{QuestionIndex: 1, QuestionID: "q2", SelectedAnswer: 0, IsCorrect: false, TimeSpent: 5},
		},
		CompletedAt: start.Add(90 * time.Second),
		TimeSpent:   90,
	}
	if diff := cmp.Diff(want, s.Results(start.Add(time.Hour))); diff != "" {
		t.Errorf("Results mismatch (-want +got):\n%s", diff)
	}
}

func TestQuizSession_ResetKeepsQuiz(t *testing.T) {
	s := NewQuizSession("s1", sampleQuiz(10))
	s.Start(start)
	s.Answer(0, 0, 1)
	s.Next(start)
	s.Reset()

	if s.Quiz == nil || s.State != QuizSetup || len(s.Answers) != 0 || s.CurrentQuestionIndex != 0 || s.StartedAt != nil {
		t.Errorf("Unexpected state after reset: %+v", s)
	}
}
