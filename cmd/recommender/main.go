package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderbot/internal/config"
	"orderbot/internal/logging"
	"orderbot/internal/metrics"
	"orderbot/internal/recommender"

	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

var (
	port       = flag.Int("port", 0, "API server port, overrides the configuration")
	configFile = flag.String("config", config.DefaultPath, "Path to configuration file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port > 0 {
		cfg.Recommender.Port = *port
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := initializeEngine(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize engine", zap.Error(err))
	}

	collector := metrics.New()
	api := recommender.NewServer(engine, collector, logger.Named("http"))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Recommender.Port),
		Handler: api.Router(),
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
		}
	}()

	logger.Info("starting chat service",
		zap.Int("port", cfg.Recommender.Port),
		zap.String("engine", engine.Name()),
	)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func initializeEngine(cfg *config.Config, logger *zap.Logger) (recommender.Engine, error) {
	keyword := recommender.NewKeywordEngine(recommender.DefaultLimit)
	if cfg.Recommender.Engine != config.EngineLLM {
		return keyword, nil
	}

	opts := []openai.Option{
		openai.WithToken(cfg.Recommender.APIKey),
		openai.WithModel(cfg.Recommender.Model),
	}
	if cfg.Recommender.LLMBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Recommender.LLMBaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}

	return recommender.NewLLMEngine(model, keyword, logger.Named("llm"),
		llms.WithTemperature(0.3),
		llms.WithMaxTokens(512),
	), nil
}
