// Package cli defines the cobra command tree for intakectl.
package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

var flagFormat string

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "intakectl",
		Short:         "Check visit drafts against the intake rules",
		Long:          "Offline tooling for the visitor intake service: validate visit draft files step by step and print the reference catalogs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")

	root.AddCommand(
		newValidateCmd(),
		newCatalogCmd(),
	)

	return root
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
