package main

import (
	"errors" // Joining close errors
	"os"     // Exit codes

	"bookstore/internal/config"  // Custom import path (Config)
	"bookstore/internal/db"      // Custom import path (Database)
	"bookstore/internal/logging" // Logger construction

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.IsProd)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("Migration failed")
		os.Exit(1)
	}
	log.Info("Migration completed")
}

func run(cfg *config.Config, log *logrus.Logger) (err error) {
	gdb, err := db.Open(cfg.DSN(), log)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close(gdb)) // Surface pool close failures too
	}()
	return db.Migrate(gdb)
}
