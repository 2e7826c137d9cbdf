package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/medical-agent/internal/api"
	"github.com/Rrens/medical-agent/internal/config"
	"github.com/Rrens/medical-agent/internal/events"
	"github.com/Rrens/medical-agent/internal/llm/registry"
	"github.com/Rrens/medical-agent/internal/logging"
	"github.com/Rrens/medical-agent/internal/matcher"
	"github.com/Rrens/medical-agent/internal/report"
	"github.com/Rrens/medical-agent/internal/repository/redis"
	"github.com/Rrens/medical-agent/internal/security"
	"github.com/Rrens/medical-agent/internal/service"
	"github.com/Rrens/medical-agent/internal/specialist"
	"github.com/Rrens/medical-agent/internal/summarizer"
	"github.com/joho/godotenv"
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

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Msg("Starting medical consultation API server")

	ctx := context.Background()

	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer st.close()

	// Redis is optional: match cache and rate limiting
	deps := api.Dependencies{Config: cfg, Store: st}
	var matchCache matcher.Cache
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		cache := redis.NewMatchCache(redisClient, cfg.Matcher.CacheTTL)
		matchCache = cache
		deps.MatchCache = cache
		deps.RateLimiter = redis.NewRateLimiter(
			redisClient,
			cfg.Security.RateLimit.RequestsPerMinute,
			cfg.Security.RateLimit.Burst,
		)
	}

	publisher := events.Noop()
	if cfg.Events.NATSURL != "" {
		publisher, err = events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.SubjectPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to NATS")
		}
	}
	defer publisher.Close()

	llmRouter := registry.New(cfg.LLM)
	directory := specialist.Default()

	var remote matcher.Strategy
	if provider, ok := llmRouter.Lookup(cfg.Matcher.Provider); ok {
		remote = matcher.NewRemoteStrategy(provider, cfg.Matcher.Model, directory)
	} else {
		log.Warn().Str("provider", cfg.Matcher.Provider).Msg("Matcher provider not registered, using keyword matching only")
	}
	symptomMatcher := matcher.New(remote, matcher.NewKeywordStrategy(directory), matchCache)

	summaryProvider, _ := llmRouter.Lookup(cfg.Summarizer.Provider)
	scribe := summarizer.New(summaryProvider, cfg.Summarizer.Models, cfg.Summarizer.Backoff)

	sessionService := service.NewSessionService(st.sessions, st.users, symptomMatcher, scribe, publisher)
	deps.Sessions = sessionService
	deps.Users = service.NewUserService(st.users)
	deps.Reports = service.NewReportService(sessionService, report.NewRenderer(cfg.Report.FontPaths, directory))
	deps.LLMRouter = llmRouter
	deps.Directory = directory
	deps.JWTManager = security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
