package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutor/config"
	"tutor/db"
	"tutor/handlers"
	"tutor/services/generation"
	"tutor/services/metrics"
	"tutor/services/retrieval"
	"tutor/services/session"
	"tutor/services/tutor"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type contentRepository interface {
	retrieval.ContentStore
	retrieval.ContentWriter
	Close() error
}

func main() {
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[ERROR] Invalid configuration: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	store, closeStore := newSessionStore(cfg)
	defer closeStore()

	historyRepo, err := db.NewPostgresHistoryRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[ERROR] Failed to initialize history database: %v", err)
	}
	defer historyRepo.Close()

	content, err := newContentRepository(cfg)
	if err != nil {
		log.Fatalf("[ERROR] Failed to initialize content store: %v", err)
	}
	defer content.Close()

	openAIEmbedder, err := retrieval.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("[ERROR] Failed to initialize embedder: %v", err)
	}
	embedder := retrieval.NewRateLimitedEmbedder(openAIEmbedder, cfg.EmbeddingRateLimit)

	generator, err := newGenerator(cfg, m)
	if err != nil {
		log.Fatalf("[ERROR] Failed to initialize generation providers: %v", err)
	}
	log.Printf("[INFO] Generation providers: %s", generator.Name())

	engine := retrieval.NewEngine(embedder, content)
	indexer := retrieval.NewIndexer(embedder, content)

	sessionService := session.NewService(store, historyRepo, cfg.SessionTTL, m)
	tutorService := tutor.NewService(sessionService, engine, generator, tutor.DefaultTemplates{}, m, tutor.Config{
		RetrievalTimeout:  cfg.RetrievalTimeout,
		GenerationTimeout: cfg.GenerationTimeout,
		SnippetLimit:      retrieval.DefaultLimit,
	})

	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	handlers.NewSessionHandler(sessionService).RegisterRoutes(router)
	handlers.NewChatHandler(tutorService).RegisterRoutes(router)
	handlers.NewDocumentHandler(engine, indexer).RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[INFO] Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[ERROR] Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[INFO] Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GenerationTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] Server forced to shutdown: %v", err)
	}
}

func newSessionStore(cfg *config.Config) (db.SessionStore, func()) {
	if cfg.RedisURL == "" {
		log.Printf("[WARN] REDIS_URL not set, keeping sessions in process memory")
		return db.NewCacheSessionStore(cfg.SessionTTL, 10*time.Minute), func() {}
	}

	store, err := db.NewRedisSessionStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("[ERROR] Failed to initialize Redis session store: %v", err)
	}
	return store, func() { store.Close() }
}

func newContentRepository(cfg *config.Config) (contentRepository, error) {
	if cfg.PineconeAPIKey != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		return retrieval.NewPineconeStore(ctx, cfg.PineconeAPIKey, cfg.PineconeIndexName, cfg.PineconeNamespace)
	}

	log.Printf("[INFO] PINECONE_API_KEY not set, using Postgres content store")
	return db.NewPostgresContentRepository(cfg.DatabaseURL)
}

// newGenerator orders the configured providers. OpenRouter is primary unless
// PREFER_ANTHROPIC is set.
func newGenerator(cfg *config.Config, m *metrics.Metrics) (*generation.Chain, error) {
	var providers []generation.Provider

	if cfg.OpenRouterAPIKey != "" {
		openRouter, err := generation.NewOpenRouterProvider(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL)
		if err != nil {
			return nil, err
		}
		providers = append(providers, openRouter)
	}

	if cfg.AnthropicAPIKey != "" {
		anthropicProvider := generation.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if cfg.PreferAnthropic {
			providers = append([]generation.Provider{anthropicProvider}, providers...)
		} else {
			providers = append(providers, anthropicProvider)
		}
	}

	return generation.NewChain(m, providers...), nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy", "service": "adaptive-tutor"}`))
}
