/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"github.com/spf13/cobra"

	"github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/schema"
)

func newSchemaCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [name]",
		Short: "Show entity schemas",
		Long: `Show the schema of an entity kind, or the names of all known schemas
when no name is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := schema.Default()
			if len(args) == 0 {
				return printValue(cmd.OutOrStdout(), flags.output, registry.Names())
			}

			d, err := registry.Get(args[0])
			if err != nil {
				return err
			}
			if d.IsEmpty() {
				return errors.NewNotFoundError("schema", args[0])
			}
			return printValue(cmd.OutOrStdout(), flags.output, d)
		},
	}
}
