package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studyforge-backend/internal/cache"
	"studyforge-backend/internal/handlers"
	"studyforge-backend/internal/middleware"
	"studyforge-backend/internal/repository"
	"studyforge-backend/internal/services"
	"studyforge-backend/internal/study"
	"studyforge-backend/internal/websocket"
)

func newTestRouter(limit int) (http.Handler, func()) {
	store := cache.NewMemory()
	auth := middleware.NewJWTAuth("test-secret")
	hub := websocket.NewHub(nil, auth)
	trending := services.NewTrendingService(nil, store, time.Minute)

	h := Handlers{
		Generate: handlers.NewGenerateHandler(services.NewGenerateService(nil, "perplexity", repository.NoopHistory{})),
		Feeds: handlers.NewFeedHandler(handlers.FeedServices{
			Trending: trending,
			News:     services.NewNewsService(nil),
			Events:   services.NewGlobalEventsService(nil),
			Science:  services.NewScienceService(nil),
			Skills:   services.NewSkillsService(nil),
			Viral:    services.NewViralService(nil),
			LiveData: services.NewLiveDataService(nil, store),
			Research: services.NewResearchService(nil),
		}),
		Competitions: handlers.NewCompetitionHandler(services.NewCompetitionService(nil, services.NewMemoryScoreboard(), hub, auth)),
		Upload:       handlers.NewUploadHandler(services.NewFileExtractService(), services.NewYouTubeService()),
		Health:       handlers.NewHealthHandler("perplexity", false, nil, store),
		Study:        handlers.NewStudyHandler(services.NewStudyService(study.NewStore(store), repository.NoopHistory{})),
		History:      handlers.NewHistoryHandler(repository.NoopHistory{}),
	}

	limiter := middleware.NewRateLimiter(limit, time.Minute)
	return New(h, auth, hub, limiter, "http://localhost:5173"), limiter.Stop
}

func TestRoutes(t *testing.T) {
	r, stop := newTestRouter(100)
	defer stop()

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/trending", "", http.StatusOK},
		{http.MethodGet, "/api/news-learning", "", http.StatusInternalServerError},
		{http.MethodPost, "/api/global-events", `{}`, http.StatusOK},
		{http.MethodPost, "/api/generate", `{"topic":"Go","type":"quiz"}`, http.StatusOK},
		{http.MethodPost, "/api/generate", `{"topic":"Go"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/learning-competitions", `{}`, http.StatusOK},
		{http.MethodGet, "/api/learning-competitions/weekly-science-2024/leaderboard", "", http.StatusOK},
		{http.MethodPost, "/api/learning-competitions/weekly-science-2024/answers", `{}`, http.StatusUnauthorized},
		{http.MethodGet, "/api/learning-competitions/weekly-science-2024/ws", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/study/workspaces/ws-1", "", http.StatusOK},
		{http.MethodGet, "/api/study/decks/missing", "", http.StatusNotFound},
		{http.MethodGet, "/api/history", "", http.StatusOK},
		{http.MethodGet, "/api/history/quizzes", "", http.StatusOK},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != tc.want {
				t.Fatalf("Expected status %d, got %d", tc.want, rr.Code)
			}
			if rr.Header().Get(middleware.RequestIDHeader) == "" {
				t.Fatalf("Expected a request id header")
			}
		})
	}
}

func TestLLMRoutesAreRateLimited(t *testing.T) {
	r, stop := newTestRouter(2)
	defer stop()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/trending", nil))
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("Expected 200, 200, 429, got %v", codes)
	}

	// health is outside the limiter
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected health to bypass the limiter, got %d", rr.Code)
	}
}
