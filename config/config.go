/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/suparena/entityservice/errors"
)

// Supported datastore backends.
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendDynamoDB = "dynamodb"
	BackendMongoDB  = "mongodb"
)

// Config holds every setting the CLI and the backends need.
type Config struct {
	Backend string `env:"ENTITYSERVICE_BACKEND" envDefault:"memory"`

	Log    Log
	Badger Badger
	AWS    AWS
	Mongo  Mongo
}

// Log configures the logrus logger.
type Log struct {
	Level  string `env:"ENTITYSERVICE_LOG_LEVEL" envDefault:"info"`
	Format string `env:"ENTITYSERVICE_LOG_FORMAT" envDefault:"text"`
	Output string `env:"ENTITYSERVICE_LOG_OUTPUT" envDefault:"stderr"`
}

// Badger configures the embedded datastore.
type Badger struct {
	Dir      string `env:"BADGER_DIR"`
	InMemory bool   `env:"BADGER_IN_MEMORY"`
}

// AWS configures the DynamoDB datastore. Without an access key the default
// AWS credential chain is used.
type AWS struct {
	AccessKey string `env:"AWS_ACCESS_KEY"`
	SecretKey string `env:"AWS_SECRET_KEY"`
	Region    string `env:"AWS_REGION"`
	Table     string `env:"AWS_DDB_TABLE"`
	Endpoint  string `env:"AWS_DDB_ENDPOINT"`
}

// Mongo configures the MongoDB datastore.
type Mongo struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DATABASE" envDefault:"entityservice"`
}

// Load reads the given .env files, then parses the process environment.
// Without file names it reads ".env" when one exists; named files must exist.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("failed to load env files %v: %w", files, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Parse builds a Config from an explicit environment instead of the process one.
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings required by the selected backend.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendBadger:
		if c.Badger.Dir == "" && !c.Badger.InMemory {
			return errors.NewValidationError("BADGER_DIR", "required unless BADGER_IN_MEMORY is set")
		}
	case BackendDynamoDB:
		if c.AWS.Region == "" {
			return errors.NewValidationError("AWS_REGION", "required for the dynamodb backend")
		}
		if c.AWS.Table == "" {
			return errors.NewValidationError("AWS_DDB_TABLE", "required for the dynamodb backend")
		}
		if (c.AWS.AccessKey == "") != (c.AWS.SecretKey == "") {
			return errors.NewValidationError("AWS_SECRET_KEY", "access key and secret key must be set together")
		}
	case BackendMongoDB:
		if c.Mongo.URI == "" {
			return errors.NewValidationError("MONGO_URI", "required for the mongodb backend")
		}
	default:
		return errors.NewValidationError("ENTITYSERVICE_BACKEND", fmt.Sprintf("unknown backend %q", c.Backend))
	}
	return nil
}
