package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyforge-backend/internal/cache"
)

// StateTTL is how long an untouched study document is kept.
const StateTTL = 24 * time.Hour

var ErrNotFound = errors.New("study state not found")

type kind string

const (
	kindDeck      kind = "deck"
	kindQuiz      kind = "quiz"
	kindWorkspace kind = "workspace"
)

// Store persists study documents as JSON in the cache layer. Every save
// refreshes the TTL.
type Store struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewStore(c cache.Cache) *Store {
	return &Store{cache: c, ttl: StateTTL}
}

func key(k kind, id string) string {
	return fmt.Sprintf("study:%s:%s", k, id)
}

func (s *Store) load(ctx context.Context, k kind, id string, dst interface{}) error {
	err := s.cache.Get(ctx, key(k, id), dst)
	if errors.Is(err, cache.ErrMiss) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load %s %s: %w", k, id, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, k kind, id string, v interface{}) error {
	if err := s.cache.Set(ctx, key(k, id), v, s.ttl); err != nil {
		return fmt.Errorf("failed to save %s %s: %w", k, id, err)
	}
	return nil
}

// locked runs fn while holding the document's lock, so concurrent updates to
// the same document apply one after another instead of overwriting each other.
func (s *Store) locked(ctx context.Context, k kind, id string, fn func() error) error {
	unlock, err := s.cache.Lock(ctx, key(k, id))
	if err != nil {
		return fmt.Errorf("failed to lock %s %s: %w", k, id, err)
	}
	defer unlock()
	return fn()
}

func (s *Store) Deck(ctx context.Context, id string) (*Deck, error) {
	var d Deck
	if err := s.load(ctx, kindDeck, id, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) SaveDeck(ctx context.Context, d *Deck) error {
	return s.save(ctx, kindDeck, d.ID, d)
}

// UpdateDeck loads the deck under its lock, applies fn and saves it. Nothing is
// saved when fn fails.
func (s *Store) UpdateDeck(ctx context.Context, id string, fn func(*Deck) error) (*Deck, error) {
	var d *Deck
	err := s.locked(ctx, kindDeck, id, func() error {
		var err error
		if d, err = s.Deck(ctx, id); err != nil {
			return err
		}
		if err := fn(d); err != nil {
			return err
		}
		return s.SaveDeck(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Store) Quiz(ctx context.Context, id string) (*QuizSession, error) {
	var q QuizSession
	if err := s.load(ctx, kindQuiz, id, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Store) SaveQuiz(ctx context.Context, q *QuizSession) error {
	return s.save(ctx, kindQuiz, q.ID, q)
}

func (s *Store) UpdateQuiz(ctx context.Context, id string, fn func(*QuizSession) error) (*QuizSession, error) {
	var q *QuizSession
	err := s.locked(ctx, kindQuiz, id, func() error {
		var err error
		if q, err = s.Quiz(ctx, id); err != nil {
			return err
		}
		if err := fn(q); err != nil {
			return err
		}
		return s.SaveQuiz(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Store) Workspace(ctx context.Context, id string) (*Workspace, error) {
	var w Workspace
	if err := s.load(ctx, kindWorkspace, id, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) SaveWorkspace(ctx context.Context, w *Workspace) error {
	return s.save(ctx, kindWorkspace, w.ID, w)
}

// UpdateWorkspace is UpdateDeck for workspaces. A missing workspace is created
// with fresh when fresh is not nil.
func (s *Store) UpdateWorkspace(ctx context.Context, id string, fresh func() *Workspace, fn func(*Workspace) error) (*Workspace, error) {
	var w *Workspace
	err := s.locked(ctx, kindWorkspace, id, func() error {
		var err error
		w, err = s.Workspace(ctx, id)
		if errors.Is(err, ErrNotFound) && fresh != nil {
			w, err = fresh(), nil
		}
		if err != nil {
			return err
		}
		if err := fn(w); err != nil {
			return err
		}
		return s.SaveWorkspace(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}
