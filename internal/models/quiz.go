package models

import "time"

type UserAnswer struct {
	QuestionIndex  int    `json:"questionIndex"`
	QuestionID     string `json:"questionId"`
	SelectedAnswer int    `json:"selectedAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
	TimeSpent      int    `json:"timeSpent"` // seconds
}

type QuizResult struct {
	QuizID         string       `json:"quizId"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"totalQuestions"`
	CorrectAnswers int          `json:"correctAnswers"`
	Answers        []UserAnswer `json:"answers"`
	CompletedAt    time.Time    `json:"completedAt"`
	TimeSpent      int          `json:"timeSpent"` // seconds
}

type Progress struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}
