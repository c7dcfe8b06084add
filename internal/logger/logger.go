package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type Config struct {
	Level string
	// File is a path to write logs to, stdout if empty.
	File string
}

// PrepareLogger configures the standard logrus logger. It returns a closer for the log file.
func PrepareLogger(config Config) (io.Closer, error) {
	level, err := log.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level %q: %w", config.Level, err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if config.File == "" {
		log.SetOutput(os.Stdout)
		return nopCloser{}, nil
	}
	f, err := os.OpenFile(config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}
