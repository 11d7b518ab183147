// Package logging builds the zerolog logger shared by the CLI, TUI and server.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/stretchlp/stretchboard/internal/config"
)

// New constructs a zerolog logger based on config settings.
// Empty fields mean JSON, info level and stderr. The returned closer is nil
// unless a file was opened.
func New(cfg config.LoggingConfig, app, version string) (zerolog.Logger, io.Closer, error) {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	output := io.Writer(os.Stderr)
	var closer io.Closer

	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "discard":
		return zerolog.Nop(), nil, nil
	case "file":
		if cfg.FilePath == "" {
			return zerolog.Nop(), nil, fmt.Errorf("logging.output=file requires logging.file_path")
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
		closer = file
	}

	if strings.ToLower(strings.TrimSpace(cfg.Format)) == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339, NoColor: closer != nil}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("app", app).
		Str("version", version).
		Logger()

	return logger, closer, nil
}

// ForDebug returns a copy of cfg that writes debug-level JSON to a file,
// for the TUI's --debug flag.
func ForDebug(cfg config.LoggingConfig) config.LoggingConfig {
	cfg.Level = "debug"
	cfg.Output = "file"
	cfg.Format = "json"
	if cfg.FilePath == "" {
		cfg.FilePath = "stretchboard.log"
	}
	return cfg
}
