package handlers

import (
	"net/http"

	"studyforge-backend/internal/repository"
)

type HistoryHandler struct {
	history repository.HistoryStore
}

func NewHistoryHandler(history repository.HistoryStore) *HistoryHandler {
	return &HistoryHandler{history: history}
}

func historyLimit(r *http.Request) int {
	limit := queryInt(r, "limit")
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return limit
}

func (h *HistoryHandler) Generations(w http.ResponseWriter, r *http.Request) {
	generations, err := h.history.ListGenerations(r.Context(), historyLimit(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"enabled": h.history.Enabled(),
		"data":    generations,
	})
}

func (h *HistoryHandler) QuizResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.history.ListQuizResults(r.Context(), historyLimit(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"enabled": h.history.Enabled(),
		"data":    results,
	})
}
