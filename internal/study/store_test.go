package study

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"studyforge-backend/internal/cache"
)

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(cache.NewMemory())
	ctx := context.Background()

	d := NewDeck("d1", "Go", cards("1", "2"))
	d.Next()
	if err := store.SaveDeck(ctx, d); err != nil {
		t.Fatalf("SaveDeck failed: %v", err)
	}
	got, err := store.Deck(ctx, "d1")
	if err != nil {
		t.Fatalf("Deck failed: %v", err)
	}
	if diff := cmp.Diff(d, got); diff != "" {
		t.Errorf("Deck mismatch (-want +got):\n%s", diff)
	}

	q := NewQuizSession("q1", sampleQuiz(5))
	q.Start(start)
	store.SaveQuiz(ctx, q)
	gotQ, err := store.Quiz(ctx, "q1")
	if err != nil {
		t.Fatalf("Quiz failed: %v", err)
	}
	if gotQ.State != QuizActive || gotQ.TimeRemaining != 300 || !gotQ.StartedAt.Equal(start) {
		t.Errorf("Unexpected quiz session: %+v", gotQ)
	}
}

func TestStore_NotFound(t *testing.T) {
	store := NewStore(cache.NewMemory())
	ctx := context.Background()

	if _, err := store.Deck(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deck, got %v", err)
	}
	if _, err := store.Workspace(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for workspace, got %v", err)
	}

	// Same id, different kind.
	store.SaveDeck(ctx, NewDeck("shared", "", nil))
	if _, err := store.Quiz(ctx, "shared"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected kinds to be keyed separately, got %v", err)
	}
}

func TestStore_UpdateSavesOnlyOnSuccess(t *testing.T) {
	store := NewStore(cache.NewMemory())
	ctx := context.Background()
	store.SaveDeck(ctx, NewDeck("d1", "Go", cards("1", "2", "3")))

	boom := errors.New("boom")
	if _, err := store.UpdateDeck(ctx, "d1", func(d *Deck) error {
		d.Next()
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("Expected fn error returned, got %v", err)
	}
	got, _ := store.Deck(ctx, "d1")
	if got.CurrentIndex != 0 {
		t.Errorf("Expected failed update not saved, index=%d", got.CurrentIndex)
	}

	updated, err := store.UpdateDeck(ctx, "d1", func(d *Deck) error {
		d.Next()
		return nil
	})
	if err != nil || updated.CurrentIndex != 1 {
		t.Fatalf("Expected index 1, got %+v, %v", updated, err)
	}

	if _, err := store.UpdateQuiz(ctx, "missing", func(*QuizSession) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing quiz, got %v", err)
	}

	w, err := store.UpdateWorkspace(ctx, "ws-1", func() *Workspace { return NewWorkspace("ws-1", start) }, func(w *Workspace) error {
		w.TrackTopicInteraction("go", start)
		return nil
	})
	if err != nil || w.TopicPopularity["go"] != 1 {
		t.Fatalf("Expected workspace created and updated, got %+v, %v", w, err)
	}
}
