package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFrameCheckCmd() *cobra.Command {
	var (
		frameSrc string
		fail     bool
	)
	cmd := &cobra.Command{
		Use:   "frame-check <url>",
		Short: "Check whether a URL may be framed by the preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := framePolicy(frameSrc)
			if err != nil {
				return err
			}
			c := p.Check(args[0])
			if format, _ := cmd.Flags().GetString("output"); format == "json" {
				if err := printOutput(cmd, c); err != nil {
					return err
				}
			} else if c.Allowed {
				fmt.Fprintf(cmd.OutOrStdout(), "allowed\t%s\t%s\n", c.URL, c.Source)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "blocked\t%s\t%s\n", c.URL, c.Warning)
			}
			if !c.Allowed && fail {
				exitFunc(2)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&frameSrc, "frame-src", "", "frame-src directive (defaults to the environment)")
	cmd.Flags().BoolVar(&fail, "fail", false, "exit 2 when the url is blocked")
	return cmd
}
