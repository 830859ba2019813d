package main

import (
	"github.com/spf13/cobra"

	"github.com/faciam-dev/urlpreview/internal/form"
)

func newEvalCmd() *cobra.Command {
	var (
		set      []string
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "eval <id>",
		Short: "Evaluate an interface settings form for the given values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := form.ParseValues(set)
			if err != nil {
				return err
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			if validate {
				vals, err := c.Validate(cmd.Context(), args[0], values)
				if err != nil {
					return err
				}
				return printOutput(cmd, vals)
			}
			ev, err := c.Evaluate(cmd.Context(), args[0], values)
			if err != nil {
				return err
			}
			return printOutput(cmd, ev)
		},
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "option value as key=value (repeatable)")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate instead of evaluating")
	return cmd
}
