package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"studyforge-backend/internal/models"
	"studyforge-backend/internal/study"
)

// QuizResultRecorder keeps completed quiz results.
type QuizResultRecorder interface {
	SaveQuizResult(ctx context.Context, sessionID string, result *models.QuizResult) error
}

type DeckView struct {
	*study.Deck
	Progress           models.Progress   `json:"progress"`
	CurrentCard        *models.Flashcard `json:"currentCard"`
	DifficultyIcon     string            `json:"difficultyIcon,omitempty"`
	DifficultyGradient string            `json:"difficultyGradient,omitempty"`
}

type QuizView struct {
	*study.QuizSession
	Progress        models.Progress      `json:"progress"`
	CurrentQuestion *models.QuizQuestion `json:"currentQuestion"`
	TimeDisplay     string               `json:"timeDisplay"`
}

type WorkspaceView struct {
	*study.Workspace
	FilteredTrendingTopics []models.TrendingTopic `json:"filteredTrendingTopics"`
}

type StudyService struct {
	store   *study.Store
	results QuizResultRecorder
	now     func() time.Time
}

func NewStudyService(store *study.Store, results QuizResultRecorder) *StudyService {
	return &StudyService{store: store, results: results, now: time.Now}
}

func deckView(d *study.Deck) *DeckView {
	v := &DeckView{Deck: d, Progress: d.Progress(), CurrentCard: d.Current()}
	if v.CurrentCard != nil {
		v.DifficultyIcon = study.DifficultyIcon(v.CurrentCard.Difficulty)
		v.DifficultyGradient = study.DifficultyGradient(v.CurrentCard.Difficulty)
	}
	return v
}

func quizView(q *study.QuizSession) *QuizView {
	v := &QuizView{QuizSession: q, Progress: q.Progress(), TimeDisplay: study.FormatTime(q.TimeRemaining)}
	if q.Quiz != nil && q.CurrentQuestionIndex < len(q.Quiz.Questions) {
		v.CurrentQuestion = &q.Quiz.Questions[q.CurrentQuestionIndex]
	}
	return v
}

func notFound(err error, what string) error {
	if errors.Is(err, study.ErrNotFound) {
		return &NotFoundError{Message: what + " not found"}
	}
	return err
}

// ──── Flashcard decks ────

func (s *StudyService) CreateDeck(ctx context.Context, req models.CreateDeckRequest) (*DeckView, error) {
	if len(req.Flashcards) == 0 {
		return nil, &ValidationError{Message: "At least one flashcard is required", Fields: map[string]string{"flashcards": "required"}}
	}

	d := study.NewDeck(uuid.NewString(), req.Title, req.Flashcards)
	d.UpdatedAt = s.now()
	if err := s.store.SaveDeck(ctx, d); err != nil {
		return nil, err
	}
	return deckView(d), nil
}

func (s *StudyService) Deck(ctx context.Context, id string) (*DeckView, error) {
	d, err := s.store.Deck(ctx, id)
	if err != nil {
		return nil, notFound(err, "Deck")
	}
	return deckView(d), nil
}

// DeckAction applies one of next, previous, flip, shuffle, reset or goto.
func (s *StudyService) DeckAction(ctx context.Context, id, action string, req models.DeckActionRequest) (*DeckView, error) {
	d, err := s.store.UpdateDeck(ctx, id, func(d *study.Deck) error {
		switch action {
		case "next":
			d.Next()
		case "previous":
			d.Previous()
		case "flip":
			d.ToggleAnswer()
		case "shuffle":
			d.Shuffle(nil)
		case "reset":
			d.Reset()
		case "goto":
			d.GoTo(req.Index)
		default:
			return &ValidationError{Message: fmt.Sprintf("Unknown deck action %q", action)}
		}
		d.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, notFound(err, "Deck")
	}
	return deckView(d), nil
}

// ──── Quiz sessions ────

func (s *StudyService) CreateQuizSession(ctx context.Context, req models.CreateQuizSessionRequest) (*QuizView, error) {
	if req.Quiz == nil || len(req.Quiz.Questions) == 0 {
		return nil, &ValidationError{Message: "A quiz with at least one question is required", Fields: map[string]string{"quiz": "required"}}
	}

	id := uuid.NewString()
	for i := range req.Quiz.Questions {
		if req.Quiz.Questions[i].ID == "" {
			req.Quiz.Questions[i].ID = fmt.Sprintf("question-%s-%d", id, i)
		}
	}

	q := study.NewQuizSession(id, req.Quiz)
	q.UpdatedAt = s.now()
	if err := s.store.SaveQuiz(ctx, q); err != nil {
		return nil, err
	}
	return quizView(q), nil
}

func (s *StudyService) QuizSession(ctx context.Context, id string) (*QuizView, error) {
	q, err := s.store.Quiz(ctx, id)
	if err != nil {
		return nil, notFound(err, "Quiz session")
	}
	return quizView(q), nil
}

// QuizAction applies one of start, answer, next, previous, goto, complete,
// reset or tick. The first transition to completed saves the result.
func (s *StudyService) QuizAction(ctx context.Context, id, action string, req models.QuizActionRequest) (*QuizView, error) {
	now := s.now()
	var wasCompleted bool

	q, err := s.store.UpdateQuiz(ctx, id, func(q *study.QuizSession) error {
		wasCompleted = q.State == study.QuizCompleted

		switch action {
		case "start":
			if err := q.Start(now); err != nil {
				return &ValidationError{Message: err.Error()}
			}
		case "answer":
			if q.State != study.QuizActive {
				return &ConflictError{Message: "Quiz is not active"}
			}
			if _, err := q.Answer(req.QuestionIndex, req.SelectedAnswer, req.TimeSpent); err != nil {
				return &ValidationError{Message: err.Error(), Fields: map[string]string{"questionIndex": "out of range"}}
			}
		case "next":
			q.Next(now)
		case "previous":
			q.Previous()
		case "goto":
			q.GoTo(req.Index)
		case "complete":
			q.Complete(now)
		case "reset":
			q.Reset()
		case "tick":
			q.Tick(1, now)
		default:
			return &ValidationError{Message: fmt.Sprintf("Unknown quiz action %q", action)}
		}
		q.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, notFound(err, "Quiz session")
	}

	if !wasCompleted && q.State == study.QuizCompleted && s.results != nil {
		if result := q.Results(now); result != nil {
			if err := s.results.SaveQuizResult(ctx, q.ID, result); err != nil {
				log.Printf("failed to save quiz result for session %s: %v", q.ID, err)
			}
		}
	}
	return quizView(q), nil
}

func (s *StudyService) QuizResults(ctx context.Context, id string) (*models.QuizResult, error) {
	q, err := s.store.Quiz(ctx, id)
	if err != nil {
		return nil, notFound(err, "Quiz session")
	}
	result := q.Results(s.now())
	if result == nil {
		return nil, &NotFoundError{Message: "No answers recorded yet"}
	}
	return result, nil
}

// ──── Learning workspaces ────

// Workspace loads a workspace, creating one with default preferences on first use.
func (s *StudyService) Workspace(ctx context.Context, id string) (*WorkspaceView, error) {
	w, err := s.workspace(ctx, id)
	if err != nil {
		return nil, err
	}
	return &WorkspaceView{Workspace: w, FilteredTrendingTopics: w.FilteredTrendingTopics()}, nil
}

func (s *StudyService) workspace(ctx context.Context, id string) (*study.Workspace, error) {
	w, err := s.store.Workspace(ctx, id)
	if errors.Is(err, study.ErrNotFound) {
		return study.NewWorkspace(id, s.now()), nil
	}
	return w, err
}

// UpdateWorkspace applies fn to the workspace under its lock and saves it.
func (s *StudyService) UpdateWorkspace(ctx context.Context, id string, fn func(w *study.Workspace, now time.Time) error) (*WorkspaceView, error) {
	now := s.now()
	fresh := func() *study.Workspace { return study.NewWorkspace(id, now) }

	w, err := s.store.UpdateWorkspace(ctx, id, fresh, func(w *study.Workspace) error {
		if err := fn(w, now); err != nil {
			return err
		}
		w.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &WorkspaceView{Workspace: w, FilteredTrendingTopics: w.FilteredTrendingTopics()}, nil
}

func (s *StudyService) UpdatePreferences(ctx context.Context, id string, patch []byte) (*WorkspaceView, error) {
	return s.UpdateWorkspace(ctx, id, func(w *study.Workspace, _ time.Time) error {
		if err := w.UpdatePreferences(patch); err != nil {
			return &ValidationError{Message: err.Error()}
		}
		return nil
	})
}

func (s *StudyService) AddTrendingTopic(ctx context.Context, id string, topic models.TrendingTopic) (*WorkspaceView, error) {
	if topic.Topic == "" {
		return nil, &ValidationError{Message: "Topic is required", Fields: map[string]string{"topic": "required"}}
	}
	return s.UpdateWorkspace(ctx, id, func(w *study.Workspace, _ time.Time) error {
		w.AddTrendingTopic(topic)
		return nil
	})
}

func (s *StudyService) AddNewsContent(ctx context.Context, id string, content models.NewsBasedContent) (*WorkspaceView, error) {
	return s.UpdateWorkspace(ctx, id, func(w *study.Workspace, _ time.Time) error {
		w.AddNewsContent(content)
		return nil
	})
}

func (s *StudyService) AddFactCheckResult(ctx context.Context, id string, result models.FactCheckResult) (*WorkspaceView, error) {
	return s.UpdateWorkspace(ctx, id, func(w *study.Workspace, _ time.Time) error {
		w.AddFactCheckResult(result)
		if len(result.Sources) > 0 {
			w.UpdateSources(result.Sources)
		}
		return nil
	})
}

func (s *StudyService) TrackTopicInteraction(ctx context.Context, id, topic string) (*WorkspaceView, error) {
	if topic == "" {
		return nil, &ValidationError{Message: "Topic is required", Fields: map[string]string{"topic": "required"}}
	}
	return s.UpdateWorkspace(ctx, id, func(w *study.Workspace, now time.Time) error {
		w.TrackTopicInteraction(topic, now)
		return nil
	})
}

// ClearWorkspace drops collected content but keeps preferences.
func (s *StudyService) ClearWorkspace(ctx context.Context, id string) (*WorkspaceView, error) {
	return s.UpdateWorkspace(ctx, id, func(w *study.Workspace, _ time.Time) error {
		w.ClearAll()
		return nil
	})
}
