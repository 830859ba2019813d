package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print an interface descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			e, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if format, _ := cmd.Flags().GetString("output"); format == "json" {
				return printOutput(cmd, e)
			}
			b, err := yaml.Marshal(e.Descriptor)
			if err != nil {
				return err
			}
			cmd.Print(string(b))
			return nil
		},
	}
}
