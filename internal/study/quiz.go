package study

import (
	"errors"
	"time"

	"studyforge-backend/internal/models"
)

type QuizState string

const (
	QuizSetup     QuizState = "setup"
	QuizActive    QuizState = "active"
	QuizCompleted QuizState = "completed"
)

// DefaultTimeLimit applies when a quiz carries no time limit.
const DefaultTimeLimit = 30 * time.Minute

var (
	ErrNoQuiz          = errors.New("quiz session has no quiz")
	ErrQuestionMissing = errors.New("question index out of range")
)

// QuizSession tracks one attempt at a quiz.
type QuizSession struct {
	ID                   string              `json:"id"`
	Quiz                 *models.Quiz        `json:"quiz"`
	State                QuizState           `json:"state"`
	CurrentQuestionIndex int                 `json:"currentQuestionIndex"`
	Answers              []models.UserAnswer `json:"answers"`
	// TimeRemaining is in seconds.
	TimeRemaining int        `json:"timeRemaining"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func NewQuizSession(id string, quiz *models.Quiz) *QuizSession {
	return &QuizSession{ID: id, Quiz: quiz, State: QuizSetup, Answers: []models.UserAnswer{}}
}

func (s *QuizSession) questionCount() int {
	if s.Quiz == nil {
		return 0
	}
	return len(s.Quiz.Questions)
}

// Start begins the attempt and arms the timer.
func (s *QuizSession) Start(now time.Time) error {
	if s.Quiz == nil {
		return ErrNoQuiz
	}
	limit := time.Duration(s.Quiz.TimeLimit) * time.Minute
	if limit <= 0 {
		limit = DefaultTimeLimit
	}

	s.State = QuizActive
	s.CurrentQuestionIndex = 0
	s.Answers = []models.UserAnswer{}
	s.TimeRemaining = int(limit.Seconds())
	s.StartedAt = &now
	s.CompletedAt = nil
	return nil
}

// Answer records the selected option for a question, replacing any earlier
// answer at the same index.
func (s *QuizSession) Answer(questionIndex, selected, timeSpent int) (models.UserAnswer, error) {
	if questionIndex < 0 || questionIndex >= s.questionCount() {
		return models.UserAnswer{}, ErrQuestionMissing
	}
	q := s.Quiz.Questions[questionIndex]
	answer := models.UserAnswer{
		QuestionIndex:  questionIndex,
		QuestionID:     q.ID,
		SelectedAnswer: selected,
		IsCorrect:      selected == q.CorrectAnswer,
		TimeSpent:      timeSpent,
	}

	kept := s.Answers[:0]
	for _, a := range s.Answers {
		if a.QuestionIndex != questionIndex {
			kept = append(kept, a)
		}
	}
	s.Answers = append(kept, answer)
	return answer, nil
}

// Next moves to the following question, completing the quiz after the last.
func (s *QuizSession) Next(now time.Time) {
	if s.CurrentQuestionIndex+1 >= s.questionCount() {
		s.Complete(now)
		return
	}
	s.CurrentQuestionIndex++
}

func (s *QuizSession) Previous() {
	s.CurrentQuestionIndex = max(0, s.CurrentQuestionIndex-1)
}

// GoTo ignores out-of-range indexes.
func (s *QuizSession) GoTo(i int) {
	if i < 0 || i >= s.questionCount() {
		return
	}
	s.CurrentQuestionIndex = i
}

func (s *QuizSession) Complete(now time.Time) {
	if s.State == QuizCompleted {
		return
	}
	s.State = QuizCompleted
	s.CompletedAt = &now
}

// Reset returns the session to setup, keeping the quiz.
func (s *QuizSession) Reset() {
	s.State = QuizSetup
	s.CurrentQuestionIndex = 0
	s.Answers = []models.UserAnswer{}
	s.TimeRemaining = 0
	s.StartedAt = nil
	s.CompletedAt = nil
}

// Tick counts the timer down by seconds and completes the quiz at zero.
func (s *QuizSession) Tick(seconds int, now time.Time) {
	if s.State != QuizActive {
		return
	}
	if seconds < 1 {
		seconds = 1
	}
	s.TimeRemaining = max(0, s.TimeRemaining-seconds)
	if s.TimeRemaining == 0 {
		s.Complete(now)
	}
}

func (s *QuizSession) Progress() models.Progress {
	return progress(s.CurrentQuestionIndex, s.questionCount())
}

// Results scores the answers so far. It returns nil until something has been
// answered.
func (s *QuizSession) Results(now time.Time) *models.QuizResult {
	total := s.questionCount()
	if total == 0 || len(s.Answers) == 0 {
		return nil
	}

	correct := 0
	for _, a := range s.Answers {
		if a.IsCorrect {
			correct++
		}
	}

	completedAt := now
	if s.CompletedAt != nil {
		completedAt = *s.CompletedAt
	}
	timeSpent := 0
	if s.StartedAt != nil {
		timeSpent = int(completedAt.Sub(*s.StartedAt).Seconds())
	}

	return &models.QuizResult{
		QuizID:         s.Quiz.ID,
		Score:          percent(correct, total),
		TotalQuestions: total,
		CorrectAnswers: correct,
		Answers:        append([]models.UserAnswer(nil), s.Answers...),
		CompletedAt:    completedAt,
		TimeSpent:      timeSpent,
	}
}
