package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{Use: "ifacectl", SilenceUsage: true}
	root.PersistentFlags().String("api-url", "", "Interface API base URL (local registry when empty)")
	root.PersistentFlags().String("dir", "", "directory of extension descriptors for the local registry")
	root.PersistentFlags().String("output", "table", "Output format (table|json)")
	root.PersistentFlags().Bool("verbose", false, "log while loading extensions")

	root.AddCommand(newListCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newEvalCmd())
	root.AddCommand(newFrameCheckCmd())
	return root
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
