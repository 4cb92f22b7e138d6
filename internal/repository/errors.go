package repository

import (
	"errors"
	"fmt"
	"strings"

	"bookstore/internal/domain"

	mysqldriver "github.com/go-sql-driver/mysql" // MySQL error codes
	"gorm.io/gorm"
)

// mysqlDuplicateEntry is the server error number for a unique index collision
const mysqlDuplicateEntry = 1062

// columnFields maps unique columns to the request field names clients send
var columnFields = map[string]string{
	"user_id": "user",
	"isbn":    "isbn",
	"email":   "email",
	"phone":   "phone",
}

// translateError maps driver and ORM errors onto the domain taxonomy
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(resource)
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return &domain.ConflictError{Field: duplicateField(myErr.Message)}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.ConflictError{}
	}
	return fmt.Errorf("%s store: %w", strings.ToLower(resource), err)
}

// duplicateField extracts the column from "Duplicate entry 'x' for key 'users.idx_users_email'"
func duplicateField(msg string) string {
	const marker = "for key '"
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	key := strings.TrimSuffix(msg[i+len(marker):], "'")
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:] // MySQL 8 prefixes the table name
	}
	// gorm names unique indexes idx_<table>_<column>
	if strings.HasPrefix(key, "idx_") {
		parts := strings.SplitN(strings.TrimPrefix(key, "idx_"), "_", 2)
		if len(parts) == 2 {
			key = parts[1]
		}
	}
	if field, ok := columnFields[key]; ok {
		return field
	}
	return key
}
