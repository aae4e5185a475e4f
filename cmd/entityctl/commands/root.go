/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package commands implements the entityctl command tree.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/suparena/entityservice"
	"github.com/suparena/entityservice/backend"
	"github.com/suparena/entityservice/config"
	"github.com/suparena/entityservice/logging"
	"github.com/suparena/entityservice/schema"
	"github.com/suparena/entityservice/service"
)

// Output formats accepted by --output.
const (
	outputJSON = "json"
	outputYAML = "yaml"
)

type globalFlags struct {
	envFiles []string
	output   string
}

// NewRootCmd builds the entityctl command tree. Each call returns a fresh
// tree, so tests can execute commands in isolation.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "entityctl",
		Short: "Manage persons, organizations and accounts",
		Long: `entityctl saves and finds entities through the entity services.

The datastore backend is selected by ENTITYSERVICE_BACKEND (memory, badger,
dynamodb or mongodb). Settings are read from the environment and from .env
files.

The default memory backend starts empty on every invocation, so a record
saved by one command is gone for the next. To keep records between commands
use the embedded store:

  export ENTITYSERVICE_BACKEND=badger BADGER_DIR=$HOME/.entityctl

Records are validated against the built-in schemas (see "entityctl schema").

Use "entityctl [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.output != outputJSON && flags.output != outputYAML {
				return fmt.Errorf("unsupported output format %q", flags.output)
			}
			return nil
		},
	}

	root.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", nil, "env files to load (default: .env)")
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", outputJSON, "output format (json|yaml)")

	root.AddCommand(newSaveCmd(flags))
	root.AddCommand(newGetCmd(flags))
	root.AddCommand(newListCmd(flags))
	root.AddCommand(newSchemaCmd(flags))
	root.AddCommand(newVersionCmd(flags))

	root.CompletionOptions.DisableDefaultCmd = true
	return root
}

// session holds what the entity commands need for one invocation.
type session struct {
	factory *service.Factory
	log     logrus.FieldLogger
	close   backend.CloseFunc
}

func openSession(ctx context.Context, flags *globalFlags) (*session, error) {
	cfg, err := config.Load(flags.envFiles...)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Version: entityservice.Version,
	})
	if err != nil {
		return nil, err
	}

	storage, closeFn, err := backend.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &session{
		factory: service.NewFactory(storage, service.WithLogger(log), service.WithSchemas(schema.Default())),
		log:     log,
		close:   closeFn,
	}, nil
}

// withService opens a session, creates the service for kind and runs fn.
func withService(cmd *cobra.Command, flags *globalFlags, kind string, fn func(svc service.Service) error) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, flags)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.close(ctx); err != nil {
			s.log.WithError(err).Warn("Failed to close the datastore")
		}
	}()

	svc, err := s.factory.Create(kind)
	if err != nil {
		return err
	}
	return fn(svc)
}

func printValue(w io.Writer, format string, v any) error {
	switch format {
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
