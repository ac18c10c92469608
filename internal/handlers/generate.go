package handlers

import (
	"context"
	"net/http"

	"studyforge-backend/internal/models"
)

type generator interface {
	Generate(ctx context.Context, req models.GenerateRequest) (*models.GenerateResult, error)
}

type GenerateHandler struct {
	generator generator
}

func NewGenerateHandler(g generator) *GenerateHandler {
	return &GenerateHandler{generator: g}
}

func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	result, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
		*models.GenerateResult
	}{true, result.Data(), result})
}
