package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyforge-backend/internal/models"
	"studyforge-backend/internal/services"
)

type StudyHandler struct {
	study *services.StudyService
}

func NewStudyHandler(study *services.StudyService) *StudyHandler {
	return &StudyHandler{study: study}
}

// ──── Decks ────

func (h *StudyHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDeckRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	deck, err := h.study.CreateDeck(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, deck)
}

func (h *StudyHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := h.study.Deck(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, deck)
}

func (h *StudyHandler) DeckAction(w http.ResponseWriter, r *http.Request) {
	var req models.DeckActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	deck, err := h.study.DeckAction(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "action"), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, deck)
}

// ──── Quiz sessions ────

func (h *StudyHandler) CreateQuizSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuizSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	session, err := h.study.CreateQuizSession(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, session)
}

func (h *StudyHandler) GetQuizSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.study.QuizSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, session)
}

func (h *StudyHandler) QuizAction(w http.ResponseWriter, r *http.Request) {
	var req models.QuizActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	session, err := h.study.QuizAction(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "action"), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, session)
}

func (h *StudyHandler) QuizResults(w http.ResponseWriter, r *http.Request) {
	result, err := h.study.QuizResults(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

// ──── Workspaces ────

func (h *StudyHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := h.study.Workspace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ws)
}

func (h *StudyHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	patch, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil || len(patch) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	ws, err := h.study.UpdatePreferences(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ws)
}

func (h *StudyHandler) AddTrendingTopic(w http.ResponseWriter, r *http.Request) {
	var topic models.TrendingTopic
	if err := decodeBody(r, &topic); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	ws, err := h.study.AddTrendingTopic(r.Context(), chi.URLParam(r, "id"), topic)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ws)
}

func (h *StudyHandler) AddNewsContent(w http.ResponseWriter, r *http.Request) {
	var content models.NewsBasedContent
	if err := decodeBody(r, &content); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	ws, err := h.study.AddNewsContent(r.Context(), chi.URLParam(r, "id"), content)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ws)
}

func (h *StudyHandler) AddFactCheckResult(w http.ResponseWriter, r *http.Request) {
	var result models.FactCheckResult
	if err := decodeBody(r, &result); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	ws, err := h.study.AddFactCheckResult(r.Context(), chi.URLParam(r, "id"), result)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ws)
}

func (h *StudyHandler) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	var req models.TopicInteractionRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	ws, err := h.study.TrackTopicInteraction(r.Context(), chi.URLParam(r, "id"), req.Topic)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ws)
}

func (h *StudyHandler) ClearWorkspace(w http.ResponseWriter, r *http.Request) {
	ws, err := h.study.ClearWorkspace(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ws)
}
