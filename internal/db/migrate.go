package db

import (
	"fmt"

	"bookstore/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes.
	// Users first: books and wallets reference them.
	if err := db.AutoMigrate(&domain.User{}, &domain.Wallet{}, &domain.Book{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
