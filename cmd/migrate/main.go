package main

import (
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"sycophancy-survey-be/internal/model"
	"sycophancy-survey-be/pkg/database"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION is not set")
	}

	// 2. Connect to Database
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. Pre-Migration: gen_random_uuid() needs pgcrypto
	color.Cyan("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Yellow("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 4. AutoMigrate All Models
	color.Cyan("Step 2: Running AutoMigrate for 5 tables...")
	models := []interface{}{
		&model.Participant{},
		&model.Challenge{},
		&model.StudySession{},
		&model.Conversation{},
		&model.ChallengeRating{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Success: migration completed.")
}
