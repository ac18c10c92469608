package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type doc struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "k", doc{Name: "a", Score: 3}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got doc
	if err := m.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "a" || got.Score != 3 {
		t.Errorf("got %+v", got)
	}
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Set(ctx, "k", doc{Name: "a"}, time.Minute)
	now = now.Add(2 * time.Minute)

	var got doc
	if err := m.Get(ctx, "k", &got); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after expiry, got %v", err)
	}
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_ = m.Set(ctx, "k", doc{Name: "a"}, 0)
	_ = m.Delete(ctx, "k")

	var got doc
	if err := m.Get(ctx, "k", &got); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after delete, got %v", err)
	}
}

func TestMemory_SetSweepsExpired(t *testing.T) {
	m := NewMemory()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_ = m.Set(ctx, "old-1", doc{Name: "a"}, time.Minute)
	_ = m.Set(ctx, "old-2", doc{Name: "b"}, time.Minute)
	_ = m.Set(ctx, "forever", doc{Name: "c"}, 0)

	now = now.Add(5 * time.Minute)
	_ = m.Set(ctx, "fresh", doc{Name: "d"}, time.Minute)

	if got := m.Len(); got != 2 {
		t.Errorf("Expected expired entries swept leaving 2, got %d", got)
	}
}

func TestMemory_LockSerializes(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	unlock, err := m.Lock(ctx, "doc")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		unlock2, err := m.Lock(ctx, "doc")
		if err != nil {
			t.Errorf("second Lock: %v", err)
			close(acquired)
			return
		}
		close(acquired)
		unlock2()
	}()

	select {
	case <-acquired:
		t.Fatalf("Expected second Lock to wait while the key is held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("Expected second Lock to succeed after unlock")
	}

	other, err := m.Lock(ctx, "other-doc")
	if err != nil {
		t.Fatalf("Expected independent keys not to block, got %v", err)
	}
	other()
}

func TestMemory_LockHonoursContext(t *testing.T) {
	m := NewMemory()
	unlock, _ := m.Lock(context.Background(), "doc")
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := m.Lock(ctx, "doc"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}
