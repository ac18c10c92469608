package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studyforge-backend/internal/handlers"
	"studyforge-backend/internal/middleware"
	"studyforge-backend/internal/websocket"
)

// Handlers bundles every route handler the API serves.
type Handlers struct {
	Generate     *handlers.GenerateHandler
	Feeds        *handlers.FeedHandler
	Competitions *handlers.CompetitionHandler
	Upload       *handlers.UploadHandler
	Health       *handlers.HealthHandler
	Study        *handlers.StudyHandler
	History      *handlers.HistoryHandler
}

func New(
	h Handlers,
	jwtAuth *middleware.JWTAuth,
	wsHub *websocket.Hub,
	llmLimiter *middleware.RateLimiter,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health.Health)

		// ──── LLM-backed routes (rate limited per IP) ────
		r.Group(func(r chi.Router) {
			r.Use(llmLimiter.Middleware)
			r.Post("/generate", h.Generate.Generate)
			r.Get("/trending", h.Feeds.Trending)
			r.Get("/news-learning", h.Feeds.NewsLearning)
			r.Post("/global-events", h.Feeds.GlobalEvents)
			r.Post("/science-tracker", h.Feeds.ScienceTracker)
			r.Post("/skill-demand", h.Feeds.SkillDemand)
			r.Post("/viral-analysis", h.Feeds.ViralAnalysis)
			r.Post("/live-data-learning", h.Feeds.LiveDataLearning)
			r.Post("/research-assistant", h.Feeds.ResearchAssistant)
		})

		// ──── Competition Routes ────
		r.Route("/learning-competitions", func(r chi.Router) {
			r.Post("/", h.Competitions.Board)
			r.With(llmLimiter.Middleware).Post("/challenges", h.Competitions.Challenge)
			r.Post("/{id}/join", h.Competitions.Join)
			r.Get("/{id}/leaderboard", h.Competitions.Leaderboard)
			r.Get("/{id}/ws", wsHub.HandleWebSocket)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/{id}/answers", h.Competitions.SubmitAnswer)
			})
		})

		// ──── Upload Routes ────
		r.Route("/upload", func(r chi.Router) {
			r.Post("/", h.Upload.Upload)
			r.Post("/youtube", h.Upload.YouTube)
		})

		// ──── Study Routes ────
		r.Route("/study", func(r chi.Router) {
			r.Route("/decks", func(r chi.Router) {
				r.Post("/", h.Study.CreateDeck)
				r.Get("/{id}", h.Study.GetDeck)
				r.Post("/{id}/{action}", h.Study.DeckAction)
			})

			r.Route("/quizzes", func(r chi.Router) {
				r.Post("/", h.Study.CreateQuizSession)
				r.Get("/{id}", h.Study.GetQuizSession)
				r.Get("/{id}/results", h.Study.QuizResults)
				r.Post("/{id}/{action}", h.Study.QuizAction)
			})

			r.Route("/workspaces/{id}", func(r chi.Router) {
				r.Get("/", h.Study.GetWorkspace)
				r.Delete("/", h.Study.ClearWorkspace)
				r.Put("/preferences", h.Study.UpdatePreferences)
				r.Post("/topics", h.Study.AddTrendingTopic)
				r.Post("/news", h.Study.AddNewsContent)
				r.Post("/fact-checks", h.Study.AddFactCheckResult)
				r.Post("/interactions", h.Study.TrackInteraction)
			})
		})

		// ──── History Routes ────
		r.Route("/history", func(r chi.Router) {
			r.Get("/", h.History.Generations)
			r.Get("/quizzes", h.History.QuizResults)
		})
	})

	return r
}
