package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/foodlens/internal/api"
	"github.com/timmy/foodlens/internal/app"
	"github.com/timmy/foodlens/internal/config"
	"github.com/timmy/foodlens/internal/logger"
	"github.com/timmy/foodlens/internal/metrics"
	"github.com/timmy/foodlens/internal/service"
)

func main() {
	// Initialize logger from LOG_* environment variables
	log := logger.NewDefault()
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	// Support CONFIG_PATH environment variable for production deployments
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	analysis, err := app.NewAnalysisService(cfg, m)
	if err != nil {
		log.Fatalf("Failed to initialize analysis pipeline: %v", err)
	}
	ocrName, model := analysis.Engines()

	sessions := service.NewSessionStore(analysis, cfg.Server.SessionTTL, m)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sessions.Run(ctx, time.Minute)

	router := api.SetupRouter(&api.Dependencies{
		Analysis: analysis,
		Sessions: sessions,
		Metrics:  m,
		Logger:   log,
		Config:   cfg,
		OCRName:  ocrName,
		Model:    model,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.LLM.Timeout + 30*time.Second,
	}

	go func() {
		log.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
			"ocr":  cfg.OCR.Provider,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
