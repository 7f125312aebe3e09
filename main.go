package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/adapters/datasource/sqlite"
	"github.com/tablescope/tablescope/pkg/config"
	"github.com/tablescope/tablescope/pkg/handlers"
	"github.com/tablescope/tablescope/pkg/middleware"
	"github.com/tablescope/tablescope/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Path),
		zap.Int("sample_limit", cfg.Database.SampleLimit))

	// Open the explored database
	db, err := sqlite.Open(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	// Wire services
	schemaService := services.NewSchemaService(db, logger)
	profiler := services.NewProfilerService(db, db, cfg.Database.SampleLimit, logger)
	statistics := services.NewStatisticsService(db, logger)
	queryService := services.NewQueryService(db, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewSchemaHandler(schemaService, logger).RegisterRoutes(mux)
	handlers.NewProfileHandler(schemaService, profiler, statistics, logger).RegisterRoutes(mux)
	handlers.NewQueryHandler(queryService, logger).RegisterRoutes(mux)

	// Serve static UI files
	fs := http.FileServer(http.Dir(cfg.UIDir))
	mux.Handle("/", fs)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting tablescope", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newLogger builds a development logger locally and a production logger
// elsewhere.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
