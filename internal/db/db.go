package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM query logger
)

// Open connects to MySQL and tunes the connection pool
func Open(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	gormLog := logger.New(log, logger.Config{
		SlowThreshold:             500 * time.Millisecond, // Log queries slower than this
		LogLevel:                  logger.Warn,            // Only slow queries and errors
		IgnoreRecordNotFoundError: true,                   // Missing rows are an expected outcome
	})
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)                  // Upper bound on concurrent connections
	sqlDB.SetMaxIdleConns(5)                   // Idle connections kept warm
	sqlDB.SetConnMaxLifetime(30 * time.Minute) // Recycle long-lived connections
	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
