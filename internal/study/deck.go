package study

import (
	"math"
	"math/rand/v2"
	"time"

	"studyforge-backend/internal/models"
)

// Deck is a flashcard study session: the cards, the card in view and whether
// its answer is showing.
type Deck struct {
	ID           string             `json:"id"`
	Title        string             `json:"title,omitempty"`
	Flashcards   []models.Flashcard `json:"flashcards"`
	CurrentIndex int                `json:"currentIndex"`
	ShowAnswer   bool               `json:"showAnswer"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

func NewDeck(id, title string, cards []models.Flashcard) *Deck {
	d := &Deck{ID: id, Title: title}
	d.SetFlashcards(cards)
	return d
}

func (d *Deck) SetFlashcards(cards []models.Flashcard) {
	if cards == nil {
		cards = []models.Flashcard{}
	}
	d.Flashcards = cards
	d.CurrentIndex = 0
	d.ShowAnswer = false
}

// Current returns the card in view, or nil for an empty deck.
func (d *Deck) Current() *models.Flashcard {
	if d.CurrentIndex < 0 || d.CurrentIndex >= len(d.Flashcards) {
		return nil
	}
	return &d.Flashcards[d.CurrentIndex]
}

// Next advances one card, wrapping to the first.
func (d *Deck) Next() {
	d.ShowAnswer = false
	if len(d.Flashcards) == 0 {
		d.CurrentIndex = 0
		return
	}
	d.CurrentIndex = (d.CurrentIndex + 1) % len(d.Flashcards)
}

// Previous steps back one card, wrapping to the last.
func (d *Deck) Previous() {
	d.ShowAnswer = false
	if len(d.Flashcards) == 0 {
		d.CurrentIndex = 0
		return
	}
	d.CurrentIndex--
	if d.CurrentIndex < 0 {
		d.CurrentIndex = len(d.Flashcards) - 1
	}
}

// GoTo jumps to card i. Out-of-range indexes are ignored.
func (d *Deck) GoTo(i int) {
	if i < 0 || i >= len(d.Flashcards) {
		return
	}
	d.CurrentIndex = i
	d.ShowAnswer = false
}

func (d *Deck) ToggleAnswer() {
	d.ShowAnswer = !d.ShowAnswer
}

// Shuffle reorders the cards with Fisher-Yates and returns to the first card.
// A nil rng uses the global source.
func (d *Deck) Shuffle(rng *rand.Rand) {
	swap := func(i, j int) { d.Flashcards[i], d.Flashcards[j] = d.Flashcards[j], d.Flashcards[i] }
	if rng != nil {
		rng.Shuffle(len(d.Flashcards), swap)
	} else {
		rand.Shuffle(len(d.Flashcards), swap)
	}
	d.CurrentIndex = 0
	d.ShowAnswer = false
}

// Reset empties the deck.
func (d *Deck) Reset() {
	d.SetFlashcards(nil)
}

func (d *Deck) Progress() models.Progress {
	return progress(d.CurrentIndex, len(d.Flashcards))
}

func progress(index, total int) models.Progress {
	current := min(index+1, total)
	p := models.Progress{Current: current, Total: total}
	if total > 0 {
		p.Percentage = percent(current, total)
	}
	return p
}

// percent is round(part/total*100) with halves rounded up.
func percent(part, total int) int {
	return int(math.Floor(float64(part)/float64(total)*100 + 0.5))
}
