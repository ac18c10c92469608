package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studyforge-backend/internal/middleware"
	"studyforge-backend/internal/models"
)

type competitionService interface {
	Board(req models.CompetitionBoardRequest) *models.CompetitionBoard
	Join(ctx context.Context, competitionID string, req models.JoinRequest) (*models.JoinResponse, error)
	SubmitAnswer(ctx context.Context, p *middleware.Participant, competitionID string, sub models.AnswerSubmission) (*models.AnswerResult, error)
	Leaderboard(ctx context.Context, competitionID string, limit int) ([]models.Standing, error)
	Challenge(ctx context.Context, req models.ChallengeRequest) (*models.Challenge, error)
}

type CompetitionHandler struct {
	competitions competitionService
}

func NewCompetitionHandler(svc competitionService) *CompetitionHandler {
	return &CompetitionHandler{competitions: svc}
}

func (h *CompetitionHandler) Board(w http.ResponseWriter, r *http.Request) {
	var req models.CompetitionBoardRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	writeData(w, http.StatusOK, h.competitions.Board(req))
}

func (h *CompetitionHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req models.JoinRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	resp, err := h.competitions.Join(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, resp)
}

func (h *CompetitionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var sub models.AnswerSubmission
	if err := decodeBody(r, &sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	participant := middleware.GetParticipant(r.Context())
	result, err := h.competitions.SubmitAnswer(r.Context(), participant, chi.URLParam(r, "id"), sub)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *CompetitionHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit")
	if limit == 0 {
		limit = 10
	}

	standings, err := h.competitions.Leaderboard(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, standings)
}

func (h *CompetitionHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	var req models.ChallengeRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	challenge, err := h.competitions.Challenge(r.Context(), req)
	if err != nil {
		handleFeedError(w, r, "Competition challenge", err)
		return
	}
	writeData(w, http.StatusOK, challenge)
}
