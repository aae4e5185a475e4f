/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package commands

import (
	"github.com/spf13/cobra"

	"github.com/suparena/entityservice/service"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list <kind>",
		Short: "List all entities of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, flags, args[0], func(svc service.Service) error {
				ch, err := service.FindAllAsync(cmd.Context(), svc)
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
