package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/gdg-garage/visitor-intake-api/internal/intake"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print reference catalogs",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "floors",
			Short: "List the floors and rooms a visit can grant",
			Args:  cobra.NoArgs,
			RunE:  runCatalogFloors,
		},
		&cobra.Command{
			Use:   "country-codes",
			Short: "List the dialing codes offered for visitor contact numbers",
			Args:  cobra.NoArgs,
			RunE:  runCatalogCountryCodes,
		},
	)

	return cmd
}

func runCatalogFloors(cmd *cobra.Command, _ []string) error {
	floors := intake.FloorCatalog()
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), floors)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "FLOOR\tROOMS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, f := range floors {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", f.Floor, strings.Join(f.Rooms, ", ")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return w.Flush()
}

func runCatalogCountryCodes(cmd *cobra.Command, _ []string) error {
	codes := intake.CountryCodes()
	if isJSON() {
		return printJSON(cmd.OutOrStdout(), codes)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "CODE\tCOUNTRY\tDEFAULT"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	for _, c := range codes {
		def := ""
		if c.Code == intake.DefaultCountryCode {
			def = "*"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s %s\t%s\n", c.Code, c.Flag, c.Country, def); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return w.Flush()
}
