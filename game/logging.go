package game

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
)

// LogOptions configures the process logger.
type LogOptions struct {
	JSON   bool
	Debug  bool
	Prefix string
}

// NewLogger builds the slog logger used by the binaries: charmbracelet/log for
// terminals, or JSON lines when opts.JSON is set.
func NewLogger(w io.Writer, opts LogOptions) *slog.Logger {
	if opts.JSON {
		level := slog.LevelInfo
		if opts.Debug {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          opts.Prefix,
	})
	if opts.Debug {
		l.SetLevel(log.DebugLevel)
	}
	return slog.New(l)
}
