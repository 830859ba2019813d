package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
	"github.com/faciam-dev/urlpreview/sdk/client"
)

func printOutput(cmd *cobra.Command, v any) error {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format == "json" {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
		return nil
	}
	switch x := v.(type) {
	case []interfaces.Entry:
		tw := tablewriter.NewWriter(out)
		tw.SetHeader([]string{"ID", "Name", "Types", "Group", "Options", "Source"})
		for _, e := range x {
			d := e.Descriptor
			tw.Append([]string{d.ID, d.Name, strings.Join(d.Types, ","), d.Group, fmt.Sprint(len(d.Options)), string(e.Source)})
		}
		tw.Render()
	case client.Evaluation:
		tw := tablewriter.NewWriter(out)
		tw.SetHeader([]string{"Field", "Value", "Hidden", "Required"})
		for _, f := range x.Fields {
			val := ""
			if f.Value != nil {
				val = fmt.Sprint(f.Value)
			}
			tw.Append([]string{f.Field, val, fmt.Sprint(f.Hidden), fmt.Sprint(f.Required)})
		}
		tw.Render()
		if x.Frame != nil {
			if x.Frame.Allowed {
				fmt.Fprintf(out, "frame: allowed by %s\n", x.Frame.Source)
			} else {
				fmt.Fprintf(out, "frame: %s\n", x.Frame.Warning)
			}
		}
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	}
	return nil
}
