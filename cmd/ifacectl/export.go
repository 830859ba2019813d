package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
	"github.com/faciam-dev/urlpreview/internal/registry/interfaces/codec"
	"github.com/faciam-dev/urlpreview/pkg/iface"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		out    string
		source string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export interface descriptors as a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return errors.New("--format must be yaml or json")
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			items, err := c.List(cmd.Context(), interfaces.Options{Limit: 200})
			if err != nil {
				return err
			}
			var ds []iface.Descriptor
			for _, e := range items {
				if source != "" && string(e.Source) != source {
					continue
				}
				ds = append(ds, e.Descriptor)
			}
			var data []byte
			if format == "json" {
				data, err = codec.EncodeJSON(ds)
				data = append(data, '\n')
			} else {
				data, err = codec.EncodeYAML(ds)
			}
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(filepath.Clean(out), data, 0o644)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "document format (yaml|json)")
	cmd.Flags().StringVar(&out, "out", "", "output file (stdout when empty)")
	cmd.Flags().StringVar(&source, "source", "", "only interfaces from this source (builtin|file)")
	return cmd
}
