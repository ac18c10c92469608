package models

type CreateDeckRequest struct {
	Title      string      `json:"title"`
	Flashcards []Flashcard `json:"flashcards"`
}

// DeckActionRequest is the body of POST /api/study/decks/{id}/{action}. Index
// is read by goto only.
type DeckActionRequest struct {
	Index int `json:"index"`
}

type CreateQuizSessionRequest struct {
	Quiz *Quiz `json:"quiz"`
}

// QuizActionRequest is the body of POST /api/study/quizzes/{id}/{action}.
type QuizActionRequest struct {
	QuestionIndex  int `json:"questionIndex"`
	SelectedAnswer int `json:"selectedAnswer"`
	TimeSpent      int `json:"timeSpent"`
	Index          int `json:"index"`
}

type TopicInteractionRequest struct {
	Topic string `json:"topic"`
}
