package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"orderbot/internal/assistant"
	"orderbot/internal/catalog"
	"orderbot/internal/chat"
	"orderbot/internal/config"
	"orderbot/internal/database"
	"orderbot/internal/i18n"
	"orderbot/internal/logging"
	"orderbot/internal/metrics"
	"orderbot/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	configFile  = flag.String("config", config.DefaultPath, "Path to configuration file")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port, overrides the configuration")
	seed        = flag.Bool("seed", false, "Seed the SQLite catalog with sample dishes and exit")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *metricsPort > 0 {
		cfg.MetricsConfig.Enabled = true
		cfg.MetricsConfig.Port = *metricsPort
	}

	if *seed {
		if err := seedCatalog(cfg); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
		return
	}

	// The terminal belongs to the UI, so logs go to a file
	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open catalog source", zap.String("source", cfg.Catalog.Source), zap.Error(err))
	}
	defer closeSource()

	var collector *metrics.Collector
	if cfg.MetricsConfig.Enabled {
		collector = metrics.New()
		go startMetricsServer(cfg.MetricsConfig.Port, cfg.MetricsConfig.Path, collector, logger)
	}

	translator, err := i18n.New(i18n.Locale(cfg.Locale))
	if err != nil {
		logger.Fatal("failed to load translations", zap.Error(err))
	}

	client := chat.NewClient(cfg.Chat.BaseURL, chat.WithHTTPClient(&http.Client{Timeout: cfg.Chat.Timeout}))
	bot := assistant.New(assistant.Options{
		Service:    client,
		Translator: translator,
		Logger:     logger.Named("assistant"),
		Metrics:    collector,
	})

	model := tui.New(ctx, tui.Options{
		Assistant: bot,
		Catalog:   catalog.NewLoader(source, logger.Named("catalog")),
		Logger:    logger.Named("tui"),
		Metrics:   collector,
	})

	logger.Info("starting orderbot",
		zap.String("chat_url", cfg.Chat.BaseURL),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("locale", cfg.Locale),
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

// openSource returns the configured catalog source and its cleanup function
func openSource(ctx context.Context, cfg *config.Config) (catalog.Source, func(), error) {
	switch cfg.Catalog.Source {
	case config.SourceFirestore:
		fs, err := catalog.NewFirestoreSource(ctx, cfg.Catalog.ProjectID, cfg.Catalog.CredentialsFile, cfg.Catalog.Collection)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() { fs.Close() }, nil
	default:
		db, err := database.Open(cfg.Catalog.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		src, err := catalog.NewSQLiteSource(db)
		if err != nil {
			database.Close(db)
			return nil, nil, err
		}
		return src, func() { database.Close(db) }, nil
	}
}

func seedCatalog(cfg *config.Config) error {
	db, err := database.Open(cfg.Catalog.SQLitePath)
	if err != nil {
		return err
	}
	defer database.Close(db)

	n, err := catalog.Seed(db)
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d menu items into %s\n", n, cfg.Catalog.SQLitePath)
	return nil
}

func startMetricsServer(port int, path string, collector *metrics.Collector, logger *zap.Logger) {
	gin.SetMode(gin.ReleaseMode)
	metricsRouter := gin.New()
	metricsRouter.GET(path, gin.WrapH(collector.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	logger.Info("starting metrics server", zap.Int("port", port))
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("metrics server error", zap.Error(err))
	}
}
