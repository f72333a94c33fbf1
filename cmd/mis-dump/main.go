package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/config"
	"github.com/deep4kk/MERN-STACK-FMS/internal/database"
	"github.com/deep4kk/MERN-STACK-FMS/internal/logging"
	"github.com/deep4kk/MERN-STACK-FMS/internal/services"

	"go.uber.org/zap"
)

const dumpTimeout = 2 * time.Minute

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	if len(args) != 2 {
		fmt.Println("Usage: go run cmd/mis-dump/main.go <year> <month>")
		fmt.Println("Example: go run cmd/mis-dump/main.go 2024 2")
		return 2
	}

	year, month, err := services.ParsePeriodParams(args[0], args[1])
	if err != nil {
		log.Printf("Invalid period: %v", err)
		return 2
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	// zap writes to stderr, stdout carries only the report
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	// Connect to MongoDB
	mongoClient, err := database.NewMongoDBClient(cfg.MongoDB, logger)
	if err != nil {
		logger.Error("failed to connect to MongoDB", zap.Error(err))
		return 1
	}
	defer func() { _ = mongoClient.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), dumpTimeout)
	defer cancel()

	// Generate and print the report
	report, err := services.NewMISService(mongoClient, cfg.Report.Location, logger).GenerateReport(ctx, year, month)
	if err != nil {
		logger.Error("failed to generate MIS report", zap.Error(err))
		return 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		logger.Error("failed to write report", zap.Error(err))
		return 1
	}
	return 0
}
