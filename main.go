package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sarayu-uu/22STUCHH010195/clock"
	"github.com/sarayu-uu/22STUCHH010195/config"
	"github.com/sarayu-uu/22STUCHH010195/geo"
	"github.com/sarayu-uu/22STUCHH010195/handler"
	appLogger "github.com/sarayu-uu/22STUCHH010195/logger"
	"github.com/sarayu-uu/22STUCHH010195/middleware"
	"github.com/sarayu-uu/22STUCHH010195/shortener"
	"github.com/sarayu-uu/22STUCHH010195/storage"
	"github.com/sarayu-uu/22STUCHH010195/store"
)

func newBackend(cfg config.Config) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemory(), nil
	case "file":
		return storage.NewFile(cfg.Storage.FilePath), nil
	case "sqlite":
		return storage.NewSQLite(cfg.Storage.SQLitePath)
	case "redis":
		client, err := storage.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return storage.NewRedis(client, cfg.Storage.RedisKey), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func newSampler(cfg config.GeoConfig) (geo.Sampler, func(), error) {
	switch cfg.Provider {
	case "ipwhois":
		sampler, err := geo.NewIPWhois(
			time.Duration(cfg.CacheTTLSeconds)*time.Second,
			int64(cfg.CacheMaxEntries),
		)
		if err != nil {
			return nil, nil, err
		}
		return sampler, sampler.Close, nil
	default:
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		return geo.NewStub(rng), func() {}, nil
	}
}

func main() {
	// Load configuration
	cfg := config.MustLoadConfig()

	// Initialize logger
	appLogger.Initialize(cfg.Logging.Level)
	log.Info().Msg("Configuration loaded successfully")

	// Initialize the durable storage backend
	backend, err := newBackend(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to initialize storage backend")
	}
	log.Info().Str("backend", cfg.Storage.Backend).Msg("Storage backend initialized")

	// Initialize the geolocation sampler
	sampler, closeSampler, err := newSampler(cfg.Geo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize geolocation sampler")
	}

	// Wire the core services
	urlStore := store.New(backend, clock.Real{})
	service := shortener.New(
		urlStore,
		shortener.NewRandomGenerator(cfg.Shortener.CodeLength),
		clock.Real{},
		sampler,
		cfg.Shortener,
	)
	urlHandler := handler.NewURLHandler(service, cfg)

	// Set up router
	r := mux.NewRouter()

	// Apply global middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogger)
	r.Use(rateLimiter.Limit)

	// Register routes
	r.HandleFunc("/health", urlHandler.HealthCheck).Methods("GET")
	r.HandleFunc("/shorten", urlHandler.CreateShortURL).Methods("POST")
	r.HandleFunc("/shorten/batch", urlHandler.CreateShortURLBatch).Methods("POST")
	r.HandleFunc("/stats", urlHandler.Stats).Methods("GET")
	r.HandleFunc("/stats/{shortCode}", urlHandler.StatsByCode).Methods("GET")
	r.HandleFunc("/qr/{shortCode}", urlHandler.GenerateQR).Methods("GET")

	// Redirect route (must be last to avoid conflicts)
	r.HandleFunc("/{shortCode}", urlHandler.RedirectURL).Methods("GET")

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Run the expiry sweep once at startup and then on the configured
	// interval. One goroutine drives the ticker, so sweeps never overlap.
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go func() {
		if cfg.Cleanup.RunOnStart {
			if err := service.CleanupExpired(cleanupCtx); err != nil {
				log.Error().Err(err).Msg("Startup cleanup failed")
			}
		}

		ticker := time.NewTicker(time.Duration(cfg.Cleanup.IntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := service.CleanupExpired(cleanupCtx); err != nil {
					log.Error().Err(err).Msg("Scheduled cleanup failed")
				}
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("scheme", cfg.WebServer.Scheme).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stopCleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	closeSampler()

	if err := backend.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close storage backend")
	}

	log.Info().Msg("Server stopped gracefully")
}
