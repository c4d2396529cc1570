package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bookkeeping/internal/config"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the JSON logger used across the service. An unknown level
// falls back to info; a log file, when set, receives a copy of stdout.
func NewLogger(cfg config.LogConfig) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.File == "" {
		logger.SetOutput(os.Stdout)
		return logger, io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, f))
	return logger, f, nil
}
