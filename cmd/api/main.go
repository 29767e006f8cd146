package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/kurihiro0119/metrics-dashboard/internal/api"
	"github.com/kurihiro0119/metrics-dashboard/internal/config"
	"github.com/kurihiro0119/metrics-dashboard/internal/github"
	"github.com/kurihiro0119/metrics-dashboard/internal/service"
	"github.com/kurihiro0119/metrics-dashboard/internal/store"
	"github.com/kurihiro0119/metrics-dashboard/internal/store/memory"
	"github.com/kurihiro0119/metrics-dashboard/internal/store/postgres"
	"github.com/kurihiro0119/metrics-dashboard/internal/store/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize storage
	var st store.Store
	switch cfg.StorageType {
	case "postgres":
		st, err = postgres.NewPostgresStore(cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL storage: %v", err)
		}
	case "sqlite":
		st, err = sqlite.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite storage: %v", err)
		}
	default:
		st = memory.NewMemoryStore()
	}
	defer st.Close()

	// Initialize the Copilot usage provider
	var provider github.UsageProvider
	switch {
	case cfg.EnableMockAPI:
		provider = github.NewMockProvider()
	case cfg.GitHubToken == "":
		log.Println("Warning: GITHUB_API_TOKEN is not set, falling back to mock usage data")
		provider = github.NewMockProvider()
	default:
		provider, err = github.NewAPIProvider(github.APIOptions{
			Token:      cfg.GitHubToken,
			BaseURL:    cfg.GitHubAPIURL,
			APIVersion: cfg.GitHubAPIVersion,
			DefaultOrg: cfg.GitHubOrg,
		})
		if err != nil {
			log.Fatalf("Failed to initialize GitHub API provider: %v", err)
		}
	}

	// Initialize services
	metricService := service.NewMetricService(st.Metrics())
	dashboardService := service.NewDashboardService(st.Dashboards(), metricService)
	copilotService := service.NewCopilotService(provider)

	if cfg.SeedSampleData {
		if err := service.SeedSampleData(context.Background(), metricService, dashboardService); err != nil {
			log.Fatalf("Failed to seed sample data: %v", err)
		}
	}

	// Initialize handler
	handler := api.NewHandler(metricService, dashboardService, copilotService)

	// Setup routes
	router := api.SetupRouter(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	fmt.Printf("Starting API server on %s\n", addr)
	fmt.Printf("Storage type: %s\n", cfg.StorageType)

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
