package handlers

import (
	"context"
	"net/http"

	"studyforge-backend/internal/models"
	"studyforge-backend/internal/services"
)

type trendingFeed interface {
	Trending(ctx context.Context, category string, limit int) *services.TrendingResult
}

type newsFeed interface {
	NewsLearning(ctx context.Context, q services.NewsQuery) (*services.NewsResult, error)
}

type eventsFeed interface {
	Events(ctx context.Context, req models.GlobalEventsRequest) *services.GlobalEventsResult
}

type scienceFeed interface {
	Track(ctx context.Context, q models.ScienceQuery) (*services.ScienceResult, error)
}

type skillsFeed interface {
	Analyze(ctx context.Context, q models.SkillDemandQuery) (*services.SkillDemandOutcome, error)
}

type viralFeed interface {
	Analyze(ctx context.Context, q models.ViralAnalysisQuery) (*services.ViralOutcome, error)
}

type liveDataFeed interface {
	Learn(ctx context.Context, q models.LiveDataQuery) (*services.LiveDataOutcome, error)
}

type researchFeed interface {
	Research(ctx context.Context, q models.ResearchQuery) (*services.ResearchOutcome, error)
}

// FeedServices groups the LLM-backed learning feeds.
type FeedServices struct {
	Trending trendingFeed
	News     newsFeed
	Events   eventsFeed
	Science  scienceFeed
	Skills   skillsFeed
	Viral    viralFeed
	LiveData liveDataFeed
	Research researchFeed
}

type FeedHandler struct {
	feeds FeedServices
}

func NewFeedHandler(feeds FeedServices) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

func (h *FeedHandler) Trending(w http.ResponseWriter, r *http.Request) {
	result := h.feeds.Trending.Trending(r.Context(), r.URL.Query().Get("category"), queryInt(r, "limit"))
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*services.TrendingResult
	}{true, result})
}

func (h *FeedHandler) NewsLearning(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.feeds.News.NewsLearning(r.Context(), services.NewsQuery{
		Category:  q.Get("category"),
		Type:      q.Get("type"),
		Count:     queryInt(r, "count"),
		Timeframe: q.Get("timeframe"),
	})
	if err != nil {
		handleFeedError(w, r, "News learning", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*services.NewsResult
	}{true, result})
}

func (h *FeedHandler) GlobalEvents(w http.ResponseWriter, r *http.Request) {
	var req models.GlobalEventsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	result := h.feeds.Events.Events(r.Context(), req)
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*services.GlobalEventsResult
	}{true, result})
}

func (h *FeedHandler) ScienceTracker(w http.ResponseWriter, r *http.Request) {
	var q models.ScienceQuery
	if err := decodeBody(r, &q); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	result, err := h.feeds.Science.Track(r.Context(), q)
	if err != nil {
		handleFeedError(w, r, "Science tracker", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*services.ScienceResult
	}{true, result})
}

func (h *FeedHandler) SkillDemand(w http.ResponseWriter, r *http.Request) {
	var q models.SkillDemandQuery
	if err := decodeBody(r, &q); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	result, err := h.feeds.Skills.Analyze(r.Context(), q)
	if err != nil {
		handleFeedError(w, r, "Skill demand", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*services.SkillDemandOutcome
	}{true, result})
}

func (h *FeedHandler) ViralAnalysis(w http.ResponseWriter, r *http.Request) {
	var q models.ViralAnalysisQuery
	if err := decodeBody(r, &q); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	result, err := h.feeds.Viral.Analyze(r.Context(), q)
	if err != nil {
		handleFeedError(w, r, "Viral analysis", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*services.ViralOutcome
	}{true, result})
}

func (h *FeedHandler) LiveDataLearning(w http.ResponseWriter, r *http.Request) {
	var q models.LiveDataQuery
	if err := decodeBody(r, &q); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	result, err := h.feeds.LiveData.Learn(r.Context(), q)
	if err != nil {
		handleFeedError(w, r, "Live data learning", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*services.LiveDataOutcome
	}{true, result})
}

func (h *FeedHandler) ResearchAssistant(w http.ResponseWriter, r *http.Request) {
	var q models.ResearchQuery
	if err := decodeBody(r, &q); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	result, err := h.feeds.Research.Research(r.Context(), q)
	if err != nil {
		handleFeedError(w, r, "Research assistant", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*services.ResearchOutcome
	}{true, result})
}
