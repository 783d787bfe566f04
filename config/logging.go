package config

import (
	"fmt"
	"io"
	"log/slog"
)

// ParseLevel converts a level name to a slog level. An empty name means info.
//
// Parameters:
//   - name: debug, info, warn or error (case-insensitive)
//
// Returns:
//   - slog.Level: the level
//   - error: ErrInvalid for an unknown name
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, name)
	}
	return lvl, nil
}

// NewLogger builds a text logger writing to w at the configured level.
//
// Parameters:
//   - w: the log destination
//
// Returns:
//   - *slog.Logger: the logger
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := ParseLevel(c.Log.Level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
