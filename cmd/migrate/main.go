package main

import (
	"context"                  // Bootstrap context
	"nav_site/internal/config" // Custom import path (Config)
	"nav_site/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration: applies the schema, seeds defaults and reports table sizes
func main() {
	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	store, err := db.Open(cfg.DBPath, db.Options{
		SchemaPath:    cfg.SchemaPath,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Bootstrap(ctx); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	counts, err := store.Counts(ctx)
	if err != nil {
		logrus.Fatalf("failed to count rows: %v", err)
	}
	fields := logrus.Fields{"path": store.Path()}
	for table, n := range counts {
		fields[table] = n
	}
	logrus.WithFields(fields).Info("Migration completed successfully")
}
