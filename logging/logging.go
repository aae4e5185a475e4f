/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package logging builds the logrus logger shared by the services and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	// Level is a logrus level name such as "debug" or "info".
	Level string
	// Format is "text" or "json".
	Format string
	// Output is "stdout", "stderr" or "discard".
	Output string
	// Version is attached to every entry when set.
	Version string
}

// New creates a logger from opts.
func New(opts Options) (logrus.FieldLogger, error) {
	logger := logrus.New()

	level := opts.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(opts.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	var out io.Writer
	switch strings.ToLower(opts.Output) {
	case "", "stderr":
		out = os.Stderr
	case "stdout":
		out = os.Stdout
	case "discard":
		out = io.Discard
	default:
		return nil, fmt.Errorf("invalid log output %q", opts.Output)
	}
	logger.SetOutput(out)

	if opts.Version != "" {
		return logger.WithField("version", opts.Version), nil
	}
	return logger, nil
}
