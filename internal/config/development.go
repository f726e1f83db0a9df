package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// NewLogger writes colored text in development and JSON otherwise.
func NewLogger(w io.Writer) *slog.Logger {
	if Development() {
		return slog.New(tint.NewHandler(w, &tint.Options{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}
