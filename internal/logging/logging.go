package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/AdamBeresnev/pong-tracker/internal/config"
)

// New builds the process logger. Call sites log through slog, charmbracelet
// handles formatting.
func New(w io.Writer, cfg config.LogConfig) *slog.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}

	formatter := log.TextFormatter
	if cfg.Format == "json" {
		formatter = log.JSONFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Formatter:       formatter,
	})
	return slog.New(handler)
}
