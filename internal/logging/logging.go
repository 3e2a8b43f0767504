// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"uikit/internal/config"
)

// Setup applies cfg to the standard logrus logger. When cfg.File is empty,
// output is discarded so log lines do not corrupt the terminal UI. The
// returned closer releases the log file, if any.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	return setup(logrus.StandardLogger(), cfg)
}

func setup(l *logrus.Logger, cfg config.LogConfig) (io.Closer, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}
	l.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	if cfg.File == "" {
		l.SetOutput(io.Discard)
		return nopCloser{}, nil
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l.SetOutput(f)
	return f, nil
}

// For returns an entry tagged with component.
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
