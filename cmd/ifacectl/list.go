package main

import (
	"github.com/spf13/cobra"

	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
)

func newListCmd() *cobra.Command {
	var opt interfaces.Options
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered interfaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			items, err := c.List(cmd.Context(), opt)
			if err != nil {
				return err
			}
			return printOutput(cmd, items)
		},
	}
	cmd.Flags().StringVar(&opt.Type, "type", "", "only interfaces supporting this field type")
	cmd.Flags().StringVar(&opt.Group, "group", "", "only interfaces in this group")
	cmd.Flags().StringVarP(&opt.Q, "query", "q", "", "search id, name and description")
	cmd.Flags().IntVar(&opt.Limit, "limit", 0, "page size")
	cmd.Flags().IntVar(&opt.Offset, "offset", 0, "page offset")
	return cmd
}
