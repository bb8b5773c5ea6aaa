// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the process-wide structured logger. Level is taken from
// GRANARY_LOG_LEVEL at init and can be changed at runtime with SetLevel.
var (
	Logger *slog.Logger
	level  = &slog.LevelVar{}
)

func init() {
	level.Set(parseLevelFromEnv())
	Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseLevelFromEnv() slog.Level {
	switch strings.ToUpper(os.Getenv("GRANARY_LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel changes the minimum level of the global logger.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// SetOutput redirects the global logger to w, in text or JSON format.
func SetOutput(w io.Writer, jsonFormat bool) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}
	if jsonFormat {
		Logger = slog.New(slog.NewJSONHandler(w, opts))
		return
	}
	Logger = slog.New(slog.NewTextHandler(w, opts))
}
