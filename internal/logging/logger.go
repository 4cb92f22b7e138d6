package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// New builds the process logger. JSON output is used in production, text with full
// timestamps otherwise. Unknown level names fall back to info.
func New(level string, json bool) *logrus.Logger {
	return NewWithOutput(os.Stdout, level, json)
}

// NewWithOutput is New with an explicit writer
func NewWithOutput(w io.Writer, level string, json bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	if json {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// Discard returns a logger that drops everything, for tests
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
