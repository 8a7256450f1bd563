package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/objman/internal/config"
	"github.com/vovakirdan/objman/internal/objects"
	"github.com/vovakirdan/objman/internal/view"
)

// app carries what every command needs.
type app struct {
	cfg    config.Config
	logger *log.Logger
	view   *view.Renderer
}

// newApp loads configuration, applies the global flags and picks styled or
// plain output depending on whether stdout is a terminal.
func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	logger, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	fd := int(os.Stdout.Fd())
	styled := !flagPlain && term.IsTerminal(fd)
	width := 0
	if w, _, termErr := term.GetSize(fd); termErr == nil {
		width = w
	}

	return &app{cfg: cfg, logger: logger, view: view.New(styled, width)}, nil
}

// newContext creates a Context that logs through the app logger.
func (a *app) newContext() *objects.Context {
	prefix := strings.TrimPrefix(a.cfg.Log.Prefix+"/objects", "/")
	return objects.New(objects.WithLogger(a.logger.WithPrefix(prefix)))
}

// mustApp is newApp for command handlers.
func mustApp() *app {
	a, err := newApp()
	if err != nil {
		exitf("Error: %v\n", err)
	}
	return a
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
