package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
	"github.com/faciam-dev/urlpreview/internal/registry/interfaces/codec"
	"github.com/faciam-dev/urlpreview/pkg/iface"
)

var exitFunc = os.Exit

func newDiffCmd() *cobra.Command {
	var (
		file string
		fail bool
	)
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show differences between a descriptor file and the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			data, err := os.ReadFile(filepath.Clean(file))
			if err != nil {
				return err
			}
			want, err := codec.DecodeYAML(data)
			if err != nil {
				return err
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			var have []iface.Descriptor
			for _, d := range want {
				e, err := c.Get(cmd.Context(), d.ID)
				if errors.Is(err, interfaces.ErrNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				have = append(have, e.Descriptor)
			}
			a, err := render(have)
			if err != nil {
				return err
			}
			b, err := render(want)
			if err != nil {
				return err
			}
			out := unifiedDiff(a, b, "registry", filepath.Base(file))
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
				return nil
			}
			cmd.Print(out)
			if fail {
				exitFunc(2)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "descriptor file (yaml or json)")
	cmd.Flags().BoolVar(&fail, "fail-on-change", false, "exit 2 if the file differs")
	return cmd
}

// render prints descriptors sorted by id so that file order does not show up
// as a change.
func render(ds []iface.Descriptor) (string, error) {
	sorted := append([]iface.Descriptor(nil), ds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	var b strings.Builder
	for _, d := range sorted {
		y, err := yaml.Marshal(d)
		if err != nil {
			return "", err
		}
		b.WriteString("---\n")
		b.Write(y)
	}
	return b.String(), nil
}

func unifiedDiff(a, b, from, to string) string {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: from,
		ToFile:   to,
		Context:  3,
	}
	out, _ := difflib.GetUnifiedDiffString(d)
	return out
}
