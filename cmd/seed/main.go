package main

import (
	"context"
	"os"
	"securepay/internal/config" // Custom import path (Config)
	"securepay/internal/db"     // Database connection, migration and seed data
	"securepay/internal/store"
	"securepay/internal/utils"

	"github.com/sirupsen/logrus"
)

// Creates the pre-provisioned employee accounts
func main() {
	cfg := config.LoadConfig() // Also loads .env, which may carry DEFAULT_PASSWORD
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	password := os.Getenv("DEFAULT_PASSWORD")
	if password == "" {
		logrus.Fatal("DEFAULT_PASSWORD environment variable is required")
	}

	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	defer db.Close(database)
	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("%v", err)
	}

	created, err := db.SeedEmployees(context.Background(), store.New(database), utils.NewHasher(cfg.BcryptCost), password, db.Employees)
	if err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
	logrus.WithField("created", len(created)).Info("Seeding completed. Change default passwords after first login.")
}
