package main

import (
	"context"
	"log"

	"github.com/fatih/color"

	"sycophancy-survey-be/internal/config"
	"sycophancy-survey-be/internal/pkg/logger"
	"sycophancy-survey-be/internal/repository/unitofwork"
	"sycophancy-survey-be/internal/service"
	"sycophancy-survey-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.LoadConfig()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION is not set")
	}

	// 2. Connect to Database
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting test data seeder...")

	uowFactory := unitofwork.NewRepositoryFactory(db)
	seedLogger := logger.NewZapLogger(cfg.App.LogFilePath, false)
	adminService := service.NewAdminService(uowFactory, cfg, seedLogger)

	res, err := adminService.SeedTestData(context.Background())
	if err != nil {
		color.Red("Error: seeding failed: %v", err)
		return
	}

	color.Green("✅ Success: %s (%d participants, %d sessions)", res.Message, res.ParticipantsMade, res.SessionsMade)
}
