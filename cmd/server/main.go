package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"studyforge-backend/internal/cache"
	"studyforge-backend/internal/config"
	"studyforge-backend/internal/database"
	"studyforge-backend/internal/handlers"
	"studyforge-backend/internal/llm"
	"studyforge-backend/internal/middleware"
	"studyforge-backend/internal/repository"
	"studyforge-backend/internal/router"
	"studyforge-backend/internal/services"
	"studyforge-backend/internal/study"
	"studyforge-backend/internal/websocket"
	"studyforge-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting StudyForge Backend...")
	ctx := context.Background()

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL (optional) ────
	var (
		history  repository.HistoryStore = repository.NoopHistory{}
		dbHealth interface {
			Ping(ctx context.Context) error
		}
	)
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("✗ PostgreSQL connection failed: %v", err)
		}
		defer pool.Close()

		if err := database.RunMigrations(ctx, pool); err != nil {
			log.Fatalf("✗ Database migration failed: %v", err)
		}
		history = repository.NewHistoryRepo(pool)
		dbHealth = pool
		log.Println("✓ PostgreSQL connected, migrations applied")
	} else {
		log.Println("• DATABASE_URL not set, history disabled")
	}

	// ──── Step 3: Initialize Redis (optional) ────
	var (
		mainRedis   *redis.Client
		pubsubRedis *redis.Client
		responses   cache.Cache
		scoreboard  services.Scoreboard
		queue       worker.Queue
	)
	if cfg.RedisURL != "" {
		redisClients, err := database.NewRedisClients(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClients.Close()

		mainRedis, pubsubRedis = redisClients.Main, redisClients.PubSub
		responses = cache.NewRedis(mainRedis)
		scoreboard = services.NewRedisScoreboard(mainRedis)
		queue = worker.NewRedisQueue(mainRedis)
		log.Println("✓ Redis connected")
	} else {
		responses = cache.NewMemory()
		scoreboard = services.NewMemoryScoreboard()
		queue = worker.NewMemoryQueue(100)
		log.Println("• REDIS_URL not set, using in-process cache, leaderboard and queue")
	}

	// ──── Step 4: Initialize LLM Client ────
	var completer llm.Completer
	if cfg.LLMConfigured() {
		client, err := llm.NewFromConfig(ctx, cfg)
		if err != nil {
			log.Fatalf("✗ LLM client initialization failed: %v", err)
		}
		defer client.Close()
		completer = client
		log.Printf("✓ LLM client initialized (%s)", client.Provider())
	} else {
		log.Printf("• No %s API key configured, running in demo mode", cfg.LLMProvider)
	}

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	wsHub := websocket.NewHub(pubsubRedis, jwtAuth)

	trendingService := services.NewTrendingService(completer, responses, cfg.TrendingCacheTTL)
	liveDataService := services.NewLiveDataService(completer, responses)
	generateService := services.NewGenerateService(completer, cfg.LLMProvider, history)
	competitionService := services.NewCompetitionService(completer, scoreboard, wsHub, jwtAuth)
	studyService := services.NewStudyService(study.NewStore(responses), history)

	// ──── Initialize Handlers ────
	h := router.Handlers{
		Generate: handlers.NewGenerateHandler(generateService),
		Feeds: handlers.NewFeedHandler(handlers.FeedServices{
			Trending: trendingService,
			News:     services.NewNewsService(completer),
			Events:   services.NewGlobalEventsService(completer),
			Science:  services.NewScienceService(completer),
			Skills:   services.NewSkillsService(completer),
			Viral:    services.NewViralService(completer),
			LiveData: liveDataService,
			Research: services.NewResearchService(completer),
		}),
		Competitions: handlers.NewCompetitionHandler(competitionService),
		Upload:       handlers.NewUploadHandler(services.NewFileExtractService(), services.NewYouTubeService()),
		Health:       handlers.NewHealthHandler(cfg.LLMProvider, completer != nil, dbHealth, responses),
		Study:        handlers.NewStudyHandler(studyService),
		History:      handlers.NewHistoryHandler(history),
	}

	// ──── Step 5: Start Cache Refresh Workers ────
	var (
		workerPool *worker.Pool
		scheduler  *worker.Scheduler
	)
	if completer != nil {
		workerPool = worker.NewPool(queue, trendingService, liveDataService, cfg.WorkerCount)
		workerPool.Start()

		var err error
		scheduler, err = worker.NewScheduler(cfg.CacheWarmSchedule, queue, cfg.WarmCategories)
		if err != nil {
			log.Fatalf("✗ Invalid CACHE_WARM_SCHEDULE %q: %v", cfg.CacheWarmSchedule, err)
		}
		scheduler.Start()

		go func() {
			if err := worker.WarmUp(ctx, trendingService, cfg.WarmCategories); err != nil {
				log.Printf("Initial cache warm-up incomplete: %v", err)
			}
		}()
		log.Printf("✓ Refresh workers started (%d goroutines, schedule %s)", cfg.WorkerCount, cfg.CacheWarmSchedule)
	}

	// ──── Step 6: Start HTTP Server ────
	llmLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer llmLimiter.Stop()

	r := router.New(h, jwtAuth, wsHub, llmLimiter, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		if scheduler != nil {
			scheduler.Stop()
		}
		if workerPool != nil {
			workerPool.Stop()
		}
		wsHub.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ StudyForge Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API:     http://localhost:%s/api", cfg.Port)
	log.Printf("  Metrics: http://localhost:%s/metrics", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
