package main

import (
	"testing"

	"bookstore/internal/config"
	"bookstore/internal/logging"

	"github.com/stretchr/testify/assert"
)

func TestRun_UnreachableDatabase(t *testing.T) {
	cfg := &config.Config{
		DBUser: "root",
		DBHost: "127.0.0.1",
		DBPort: "1",
		DBName: "bookstore",
	}
	err := run(cfg, logging.Discard())
	assert.ErrorContains(t, err, "open database")
}
