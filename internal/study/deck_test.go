package study

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"studyforge-backend/internal/models"
)

func cards(ids ...string) []models.Flashcard {
	out := make([]models.Flashcard, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Flashcard{ID: id, Question: "Q" + id, Answer: "A" + id, Difficulty: "medium"})
	}
	return out
}

func TestDeck_Navigation(t *testing.T) {
	d := NewDeck("d1", "Go", cards("1", "2", "3"))

	d.ToggleAnswer()
	d.Next()
	if d.CurrentIndex != 1 || d.ShowAnswer {
		t.Fatalf("Expected index 1 with answer hidden, got %d/%v", d.CurrentIndex, d.ShowAnswer)
	}

	d.Next()
	d.Next()
	if d.CurrentIndex != 0 {
		t.Errorf("Expected Next to wrap to 0, got %d", d.CurrentIndex)
	}

	d.Previous()
	if d.CurrentIndex != 2 {
		t.Errorf("Expected Previous to wrap to last, got %d", d.CurrentIndex)
	}

	d.GoTo(7)
	d.GoTo(-1)
	if d.CurrentIndex != 2 {
		t.Errorf("Expected out-of-range GoTo to be ignored, got %d", d.CurrentIndex)
	}
	d.GoTo(1)
	if got := d.Current(); got == nil || got.ID != "2" {
		t.Errorf("Expected card 2, got %+v", got)
	}
}

func TestDeck_EmptyIsSafe(t *testing.T) {
	d := NewDeck("d1", "", nil)
	d.Next()
	d.Previous()
	if d.Current() != nil || d.CurrentIndex != 0 {
		t.Errorf("Expected empty deck to stay at 0")
	}
	if diff := cmp.Diff(models.Progress{}, d.Progress()); diff != "" {
		t.Errorf("Progress mismatch (-want +got):\n%s", diff)
	}
}

func TestDeck_Progress(t *testing.T) {
	d := NewDeck("d1", "", cards("1", "2", "3"))
	d.GoTo(1)

	want := models.Progress{Current: 2, Total: 3, Percentage: 67}
	if diff := cmp.Diff(want, d.Progress()); diff != "" {
		t.Errorf("Progress mismatch (-want +got):\n%s", diff)
	}
}

func TestDeck_ShuffleKeepsCards(t *testing.T) {
	d := NewDeck("d1", "", cards("1", "2", "3", "4", "5", "6"))
	d.GoTo(4)
	d.ToggleAnswer()

	want := cards("1", "2", "3", "4", "5", "6")
	rand.New(rand.NewPCG(1, 2)).Shuffle(len(want), func(i, j int) { want[i], want[j] = want[j], want[i] })

	d.Shuffle(rand.New(rand.NewPCG(1, 2)))
	if diff := cmp.Diff(want, d.Flashcards); diff != "" {
		t.Errorf("Shuffle mismatch (-want +got):\n%s", diff)
	}
	if d.CurrentIndex != 0 || d.ShowAnswer {
		t.Errorf("Expected shuffle to reset position")
	}
}

func TestDeck_Reset(t *testing.T) {
	d := NewDeck("d1", "", cards("1", "2"))
	d.Next()
	d.Reset()
	if len(d.Flashcards) != 0 || d.Flashcards == nil || d.CurrentIndex != 0 {
		t.Errorf("Expected empty non-nil deck, got %+v", d)
	}
}

func TestFormatTime(t *testing.T) {
	tests := map[int]string{0: "0:00", 5: "0:05", 65: "1:05", 1800: "30:00", -3: "0:00"}
	for seconds, want := range tests {
		if got := FormatTime(seconds); got != want {
			t.Errorf("FormatTime(%d) = %q, want %q", seconds, got, want)
		}
	}
}

func TestDifficultyHelpers(t *testing.T) {
	if DifficultyIcon("hard") != "🔴" || DifficultyIcon("other") != "🟣" {
		t.Errorf("Unexpected icons")
	}
	if DifficultyGradient("easy") != "from-green-400 to-blue-500" {
		t.Errorf("Unexpected gradient %q", DifficultyGradient("easy"))
	}
}
