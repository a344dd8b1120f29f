// Package main is the entry point for the movielog server.
//
// MAIN PACKAGE IN GO:
// Every Go program starts execution in the main() function of the "main"
// package. The main package should be kept minimal — its job is to:
// 1. Load configuration
// 2. Create shared dependencies (the logger)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, ...). This separation keeps components testable.
//
// WHY cmd/server/?
// The cmd/ directory is a Go convention for executable entry points. A
// project might have several executables (cmd/server, cmd/migrate, ...);
// each gets its own directory with its own main.go.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nafis/movielog/internal/config"
	"github.com/nafis/movielog/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger exists yet, so plain stderr it is.
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	// Ensure the database directory exists before sqlite tries to create
	// the file (os.MkdirAll is a no-op when it already does).
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server shuts down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// logLevel maps the LOG_LEVEL config string to a slog level, defaulting to
// Info for anything unrecognised.
func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
