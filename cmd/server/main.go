package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/deep4kk/MERN-STACK-FMS/internal/api"
	"github.com/deep4kk/MERN-STACK-FMS/internal/auth"
	"github.com/deep4kk/MERN-STACK-FMS/internal/cache"
	"github.com/deep4kk/MERN-STACK-FMS/internal/config"
	"github.com/deep4kk/MERN-STACK-FMS/internal/database"
	"github.com/deep4kk/MERN-STACK-FMS/internal/logging"
	"github.com/deep4kk/MERN-STACK-FMS/internal/models"
	"github.com/deep4kk/MERN-STACK-FMS/internal/services"
	"github.com/deep4kk/MERN-STACK-FMS/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the process exit code so deferred cleanup, including the
// logger flush, runs before exit
func realMain() int {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	// Initialize logger
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.Server.GinMode)
	ctx := context.Background()
	loc := cfg.Report.Location

	// MongoDB holds the FMS collections plus settings, layouts and subscriptions
	mongoClient, err := database.NewMongoDBClient(cfg.MongoDB, logger)
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Close() }()

	misService := services.NewMISService(mongoClient, loc, logger)

	// InfluxDB is an optional sink for monthly totals
	if cfg.InfluxDB.URL != "" {
		influxClient, err := database.NewInfluxDBClient(cfg.InfluxDB, logger)
		if err != nil {
			logger.Warn("InfluxDB unavailable, report metrics disabled", zap.Error(err))
		} else {
			defer influxClient.Close()
			misService.SetRecorder(influxClient)
		}
	} else {
		logger.Info("InfluxDB not configured, report metrics disabled")
	}

	// Export archive: S3 or a local directory
	archive, archiveDir, err := newArchive(ctx, cfg)
	if err != nil {
		return err
	}

	// Report services
	pdfService := services.NewPDFService()
	exportService := services.NewExportService(misService, pdfService, archive, loc, logger)
	defer exportService.Wait()

	// Purchase dashboard reads the sheet through a TTL cache
	sheetCache := cache.New[*models.PurchaseSheet](cfg.PurchaseSheet.CacheTTL)
	sheetClient := services.NewSheetClient(cfg.PurchaseSheet.URL, cfg.PurchaseSheet.Timeout)
	purchaseService := services.NewPurchaseService(sheetClient, sheetCache, cfg.PurchaseSheet.StatusColumn, logger)

	// Optional integrations are added below when configured
	deps := api.Dependencies{
		Reports:   misService,
		PDF:       pdfService,
		Exports:   exportService,
		Purchase:  purchaseService,
		Settings:  services.NewSettingsService(mongoClient, logger),
		Dashboard: services.NewDashboardService(mongoClient, logger),
		MockAuth:  cfg.JWT.MockAuthEnabled,
		Logger:    logger,
	}

	// Monthly email needs SendGrid
	if cfg.Email.APIKey != "" {
		emailService := services.NewEmailService(cfg.Email)
		monthly := services.NewMonthlyEmailService(misService, emailService, pdfService, mongoClient, loc, cfg.Schedule.MonthlyEmail, logger)
		if err := monthly.Start(); err != nil {
			return err
		}
		defer monthly.Stop()
		deps.Mailing = monthly
	} else {
		logger.Info("SendGrid API key not configured, monthly email reports disabled")
	}

	// Report summaries need an OpenAI key
	aiService := services.NewAIService(cfg.OpenAI, misService, logger)
	if aiService.Enabled() {
		deps.Summaries = aiService
	} else {
		logger.Info("OpenAI API key not configured, report summaries disabled")
	}

	// API auth
	if cfg.JWT.Secret != "" {
		deps.JWT = auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	} else {
		logger.Warn("JWT_SECRET not set, API authentication disabled")
	}

	// Setup routes
	router := api.SetupRoutes(api.NewHandlers(deps), api.RouterOptions{ArchiveDir: archiveDir})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for a shutdown signal or a server failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-serverErr:
		return err
	case sig := <-sigChan:
		logger.Info("shutting down gracefully", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newArchive selects the export archive backend. The returned directory is
// served over HTTP for the local backend and empty for S3.
func newArchive(ctx context.Context, cfg *config.Config) (storage.ArchiveStore, string, error) {
	if cfg.Archive.Backend == "s3" {
		store, err := storage.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	}

	store, err := storage.NewLocalStore(cfg.Archive.LocalPath, cfg.Archive.BaseURL)
	if err != nil {
		return nil, "", err
	}
	return store, store.BasePath(), nil
}
