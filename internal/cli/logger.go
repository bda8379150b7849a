package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates the structured logger used for diagnostics. The CLI writes
// human readable console output; the server passes json=true.
func NewLogger(level string, out io.Writer, json bool) (*zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %s: %w", level, err)
		}
	}

	writer := out
	if !json {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	logger := zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return &logger, nil
}
