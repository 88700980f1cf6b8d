// SPDX-FileCopyrightText: 2025 Dominik Wombacher <dominik@wombacher.cc>
//
// SPDX-License-Identifier: MIT

// Package logger provides logging functionality for the env2params tool.
//
// It wraps the standard library's log/slog package to provide consistent logging
// across the application with configurable log levels. The package supports
// debug, info, warn, and error levels, defaulting to info if an invalid level
// is specified. Log output goes to stdout and can additionally be teed into
// a log file so a run leaves an auditable trace on disk.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// DefaultLogFile is the log file written next to the working directory
// during a push run.
const DefaultLogFile = "env2params.log"

// InitLogger initializes and returns a new slog.Logger with the specified log level.
// It also sets this logger as the default global logger.
//
// The level parameter is case-insensitive and can be one of:
//   - "debug": Most verbose level, includes detailed debugging information
//   - "info": Standard log level for general operational information (default)
//   - "warn": Warnings and potentially harmful situations
//   - "error": Error conditions that should be addressed
//
// If an invalid level is provided, it defaults to "info".
func InitLogger(level string) *slog.Logger {
	return initLogger(level, os.Stdout)
}

// InitFileLogger behaves like InitLogger but additionally appends every log
// line to the file at path. If the file cannot be opened, a warning is
// printed and logging degrades to stdout only. The file handle stays open
// for the remaining lifetime of the process.
func InitFileLogger(level, path string) *slog.Logger {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to open log file %s: %v\n", path, err)
		return initLogger(level, os.Stdout)
	}
	return initLogger(level, io.MultiWriter(os.Stdout, f))
}

func initLogger(level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	handler := slog.NewTextHandler(w, opts)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// ParseLevel maps a level name to its slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug", "DEBUG":
		return slog.LevelDebug
	case "info", "INFO":
		return slog.LevelInfo
	case "warn", "WARN":
		return slog.LevelWarn
	case "error", "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
