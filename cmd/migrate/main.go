package main

import (
	"investment_platform/internal/config" // Custom import path (Config)
	"investment_platform/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	conn, err := db.Open(cfg.DSN()) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration

	// Seed an admin when credentials are configured
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := db.SeedAdmin(conn, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logrus.Fatalf("admin seed failed: %v", err)
		}
	}
}
