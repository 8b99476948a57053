package main

import (
	"securepay/internal/config" // Custom import path (Config)
	"securepay/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	defer db.Close(database)

	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("%v", err)
	}
	logrus.Info("Migration completed.")
}
