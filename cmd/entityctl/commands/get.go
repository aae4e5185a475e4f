/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"github.com/spf13/cobra"

	"github.com/suparena/entityservice/errors"
	"github.com/suparena/entityservice/service"
	"github.com/suparena/entityservice/storagemodels"
)

func newGetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>...",
		Short: "Get entities by id",
		Long: `Get one or more entities by id. A single id prints the entity, several
ids print the list of entities found.

Examples:
  entityctl get person 0b6a3c1e-5f7d-4a8e-9c1b-2d3e4f5a6b7c
  entityctl get organization o-1 o-2 -o yaml`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := args[1:]
			return withService(cmd, flags, args[0], func(svc service.Service) error {
				ctx := cmd.Context()

				if len(ids) == 1 {
					record, err := svc.FindByID(ctx, ids[0])
					if err != nil {
						return err
					}
					if record == nil {
						return errors.NewNotFoundError(svc.Kind().String(), ids[0])
					}
					return printValue(cmd.OutOrStdout(), flags.output, record)
				}

				if _, ok := svc.(service.BatchFinder); ok {
					ch, err := service.FindByIDsAsync(ctx, svc, ids)
					if err != nil {
						return err
					}
					res := <-ch
					if res.Err != nil {
						return res.Err
					}
					return printValue(cmd.OutOrStdout(), flags.output, res.Value)
				}

				// Without batch support look the ids up concurrently
				pending := make([]<-chan service.Result[storagemodels.Record], 0, len(ids))
				for _, id := range ids {
					ch, err := service.FindByIDAsync(ctx, svc, id)
					if err != nil {
						return err
					}
					pending = append(pending, ch)
				}
				records := make([]storagemodels.Record, 0, len(ids))
				for _, ch := range pending {
					res := <-ch
					if res.Err != nil {
						return res.Err
					}
					if res.Value != nil {
						records = append(records, res.Value)
					}
				}
				return printValue(cmd.OutOrStdout(), flags.output, records)
			})
		},
	}
}
