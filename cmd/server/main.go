package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/api"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/config"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/dispatch"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/health"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm/anthropic"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm/gemini"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm/ollama"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm/openai"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/repository/memory"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/repository/mongo"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/repository/postgres"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/repository/redis"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/security"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/session"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/tool"
	"github.com/joho/godotenv"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := setupLogger(cfg.Logging); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Store.Driver).
		Msg("Starting OmniAI API server")

	ctx := context.Background()

	// Document store
	repo, store, closeStore := openStore(ctx, cfg.Store)
	defer closeStore()

	// Redis is optional: locks and rate limits fall back to in-process
	var (
		redisClient *redis.Client
		locker      session.Locker = session.NewMemoryLocker()
		rateLimiter *redis.RateLimiter
	)
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, using in-process session locks")
			redisClient = nil
		} else {
			defer redisClient.Close()
			locker = redis.NewSessionLock(redisClient, cfg.Session.LockTTL)
			rateLimiter = redis.NewRateLimiter(redisClient, cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst)
		}
	}

	providers := newLLMRouter(cfg.LLM)

	registry := tool.NewDefaultRegistry()
	sessions := session.NewManager(
		repo,
		memory.NewEphemeralStore(cfg.Session.EphemeralTTL, cfg.Session.CleanupInterval),
		locker,
		cfg.Session,
	)
	dispatcher := dispatch.NewDispatcher(registry, providers, sessions, cfg.Dispatch)

	var cache health.Pinger
	if redisClient != nil {
		cache = redisClient
	}
	checker := health.NewChecker(providers, store, cfg.Store.Driver, cache, cfg.Health.ProbeTimeout)

	deps := api.Deps{
		Registry:   registry,
		Dispatcher: dispatcher,
		Sessions:   sessions,
		Groups:     sessions,
		Providers:  providers,
		Health:     checker,
	}
	if cfg.Auth.Enabled {
		deps.JWT = security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL)
	}
	if rateLimiter != nil {
		deps.RateLimiter = rateLimiter
	}

	log.Info().Int("tools", len(registry.List())).Strs("providers", providers.ListProviders()).Msg("Dispatch core ready")

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

type pingRepository interface {
	domain.SessionRepository
	health.Pinger
}

// openStore connects the configured session store and prepares its schema
func openStore(ctx context.Context, cfg config.StoreConfig) (domain.SessionRepository, health.Pinger, func()) {
	var repo pingRepository

	switch cfg.Driver {
	case "postgres":
		if err := postgres.RunMigrations(cfg.Postgres.DSN(), cfg.Postgres.Migrations); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		db, err := postgres.NewDB(ctx, cfg.Postgres)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		repo = postgres.NewSessionRepository(db)
		return repo, repo, db.Close

	default:
		db, err := mongo.NewDB(ctx, cfg.Mongo)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		if err := db.EnsureIndexes(ctx, cfg.Mongo.Collection); err != nil {
			log.Warn().Err(err).Msg("Failed to ensure session indexes")
		}
		repo = mongo.NewSessionRepository(db, cfg.Mongo.Collection)
		return repo, repo, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Close(closeCtx); err != nil {
				log.Error().Err(err).Msg("Failed to close MongoDB client")
			}
		}
	}
}

// newLLMRouter registers every provider that has credentials
func newLLMRouter(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	if cfg.OpenAI.APIKey != "" {
		router.RegisterProvider(openai.NewProvider(cfg.OpenAI))
	}
	if cfg.DeepSeek.APIKey != "" {
		// DeepSeek speaks the OpenAI protocol but has no audio endpoints
		deepseek := cfg.DeepSeek
		deepseek.Audio = false
		router.RegisterProvider(openai.NewProvider(deepseek))
	}
	if cfg.Anthropic.APIKey != "" {
		router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model))
	}
	if cfg.Gemini.APIKey != "" {
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	}
	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.DefaultModel))
	}

	if len(router.ListProviders()) == 0 {
		log.Warn().Msg("No LLM provider configured, every invocation will fail")
	}
	return router
}

// setupLogger configures the global zerolog logger: console output outside
// production, JSON otherwise, plus an optional daily rotated file
func setupLogger(cfg config.LoggingConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var stdout io.Writer = os.Stdout
	if cfg.Format == "console" {
		stdout = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{stdout}
	if cfg.File != "" {
		rotator, err := rotatelogs.New(
			cfg.File+".%Y%m%d",
			rotatelogs.WithLinkName(cfg.File),
			rotatelogs.WithMaxAge(cfg.MaxAge),
			rotatelogs.WithRotationTime(cfg.Rotate),
		)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, rotator)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	return nil
}
