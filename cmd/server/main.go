package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meera/leitbox/internal/api"
	"github.com/meera/leitbox/internal/config"
	"github.com/meera/leitbox/internal/generation"
	"github.com/meera/leitbox/internal/housekeeping"
	"github.com/meera/leitbox/internal/logger"
	"github.com/meera/leitbox/internal/repository/kv"
	"github.com/meera/leitbox/internal/services"
	"github.com/meera/leitbox/internal/storage/sqlite"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Leitbox Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("storage_quota_kb=%d", cfg.StorageQuotaKB)
	log.Debug("storage_warn_kb=%d", cfg.StorageWarnKB)
	log.Debug("housekeeping_interval_minutes=%d", cfg.HousekeepingIntervalMin)
	log.Debug("session_max_age_hours=%d", cfg.SessionMaxAgeHours)
	log.Debug("gemini_model=%s", cfg.GeminiModel)

	store, err := sqlite.Open(cfg.DBPath, cfg.StorageQuotaKB*1024)
	if err != nil {
		log.Error("failed to open storage: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing storage")
		store.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startCtx := logger.NewContext(ctx, log)

	// Services load their snapshots before the server accepts traffic.
	deckService := services.NewDeckService(kv.NewDeckRepository(store))
	if err := deckService.Load(startCtx); err != nil {
		log.Error("failed to load decks: %v", err)
		os.Exit(1)
	}
	statsService := services.NewStatsService(
		kv.NewStatsRepository(store),
		time.Duration(cfg.SessionMaxAgeHours)*time.Hour,
	)
	if err := statsService.Load(startCtx); err != nil {
		log.Error("failed to load stats: %v", err)
		os.Exit(1)
	}
	themeService := services.NewThemeService(kv.NewThemeRepository(store))

	guardian := services.NewGuardianService(store, deckService, cfg.StorageQuotaKB, cfg.StorageWarnKB)
	deckService.OnPersist(guardian.Observe)
	statsService.OnPersist(guardian.Observe)

	var generator generation.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := generation.NewGeminiGenerator(startCtx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Error("failed to initialize Gemini generator: %v", err)
			os.Exit(1)
		}
		generator = generation.WithFallback(gemini, generation.NewMockGenerator())
		log.Info("card generation backed by Gemini model %s", cfg.GeminiModel)
	} else {
		generator = generation.NewMockGenerator()
		log.Warn("no GEMINI_API_KEY set, card generation uses the offline mock")
	}

	runner := housekeeping.NewRunner(statsService, time.Duration(cfg.HousekeepingIntervalMin)*time.Minute)
	runner.Start(ctx)

	srv := api.NewServer(deckService, statsService, guardian, themeService, generator)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping housekeeping runner")
	cancel()
	runner.Stop()

	log.Info("===========================================")
	log.Info("Leitbox Server Stopped")
	log.Info("===========================================")
}
