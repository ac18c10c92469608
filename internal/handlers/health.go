package handlers

import (
	"context"
	"net/http"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	provider      string
	llmConfigured bool
	db            pinger
	cache         pinger
}

// NewHealthHandler takes a nil db when history is disabled.
func NewHealthHandler(provider string, llmConfigured bool, db, cache pinger) *HealthHandler {
	return &HealthHandler{provider: provider, llmConfigured: llmConfigured, db: db, cache: cache}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	llmStatus := "demo-mode"
	if h.llmConfigured {
		llmStatus = "configured"
	}

	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "operational"
		if err := h.db.Ping(ctx); err != nil {
			dbStatus = "degraded"
		}
	}

	cacheStatus := "operational"
	if h.cache != nil && h.cache.Ping(ctx) != nil {
		cacheStatus = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
		"services": map[string]string{
			"api":      "operational",
			h.provider: llmStatus,
			"database": dbStatus,
			"cache":    cacheStatus,
		},
		"features": map[string]bool{
			"contentGeneration": true,
			"fileUpload":        true,
			"authentication":    true,
			"gamification":      true,
			"trendingTopics":    true,
			"realTimeData":      true,
		},
	})
}
