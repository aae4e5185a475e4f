/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suparena/entityservice/service"
	"github.com/suparena/entityservice/storagemodels"
)

func newSaveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "save <kind> <json|->",
		Short: "Insert or update an entity",
		Long: `Save an entity. A record whose id matches a stored entity updates it,
any other record is inserted with a new id.

Examples:
  # Insert a person
  entityctl save person '{"name":"Ada"}'

  # Update an organization read from stdin
  echo '{"id":"o-1","name":"Acme"}' | entityctl save organization -`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := readRecord(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}

			return withService(cmd, flags, args[0], func(svc service.Service) error {
				ch, err := service.SaveAsync(cmd.Context(), svc, record)
				if err != nil {
					return err
				}
				res := <-ch
				if res.Err != nil {
					return res.Err
				}
				return printValue(cmd.OutOrStdout(), flags.output, res.Value)
			})
		},
	}
}

func readRecord(stdin io.Reader, arg string) (storagemodels.Record, error) {
	var src io.Reader = strings.NewReader(arg)
	if arg == "-" {
		src = stdin
	}

	var record storagemodels.Record
	if err := json.NewDecoder(src).Decode(&record); err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("invalid record: expected a JSON object")
	}
	return record, nil
}
