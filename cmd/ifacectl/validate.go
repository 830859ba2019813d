package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
)

func newValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an interface descriptor file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			ds, err := interfaces.LoadOne(file)
			if err != nil {
				return err
			}
			seen := map[string]bool{}
			for _, d := range ds {
				if seen[d.ID] {
					return fmt.Errorf("duplicate interface id %s", d.ID)
				}
				seen[d.ID] = true
			}
			for _, d := range ds {
				fmt.Fprintf(cmd.OutOrStdout(), "ok\t%s\t%d options\n", d.ID, len(d.Options))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "descriptor file (yaml or json)")
	return cmd
}
