package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// newLogger creates a text logger writing to stderr,
// and also to logPath when it is not empty.
// The returned closer must be called once logging is done.
func newLogger(level, logPath string) (*slog.Logger, io.Closer, error) {
	slogLevel, err := parseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	var (
		writer io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o666)
		if err != nil {
			return nil, nil, err
		}
		writer = io.MultiWriter(os.Stderr, logFile)
		closer = logFile
	}
	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: slogLevel,
	})
	return slog.New(handler), closer, nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %q", level)
	}
}
