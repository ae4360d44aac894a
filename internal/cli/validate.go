package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/gdg-garage/visitor-intake-api/internal/intake"
	"github.com/spf13/cobra"
)

type validateOptions struct {
	step     int
	all      bool
	now      string
	timezone string
}

// stepReport is the result of checking one step.
type stepReport struct {
	Step   intake.Step        `json:"step"`
	Label  string             `json:"label"`
	Valid  bool               `json:"valid"`
	Errors intake.FieldErrors `json:"errors"`
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a visit draft file",
		Long:  "Read a visit draft as JSON (use - for stdin) and report the field errors of a step. Exits non-zero when the draft is not valid.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.step, "step", 0, "step to check (0 = Visit Information, 1 = Visitor Information)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "check every step")
	cmd.Flags().StringVar(&opts.now, "now", "", "reference time in RFC 3339 (default: current time)")
	cmd.Flags().StringVar(&opts.timezone, "timezone", "Asia/Colombo", "time zone visits are scheduled in")

	return cmd
}

func runValidate(cmd *cobra.Command, path string, opts *validateOptions) error {
	steps := []intake.Step{intake.Step(opts.step)}
	if opts.all {
		steps = []intake.Step{intake.StepVisitInformation, intake.StepVisitorInformation}
	} else if intake.Step(opts.step).Label() == "" {
		return fmt.Errorf("invalid step %d: must be 0 or 1", opts.step)
	}

	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("loading time zone %q: %w", opts.timezone, err)
	}

	now := time.Now()
	if opts.now != "" {
		now, err = time.Parse(time.RFC3339, opts.now)
		if err != nil {
			return fmt.Errorf("invalid --now value: %w", err)
		}
	}

	draft, err := readDraft(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	v := intake.NewValidator(loc)
	reports := make([]stepReport, 0, len(steps))
	failed := 0
	for _, s := range steps {
		errs := v.ValidateStep(s, draft, now)
		reports = append(reports, stepReport{Step: s, Label: s.Label(), Valid: len(errs) == 0, Errors: errs})
		failed += len(errs)
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		if err := printJSON(out, reports); err != nil {
			return err
		}
	} else {
		printReports(out, reports)
	}

	if failed > 0 {
		return fmt.Errorf("draft has %d field error(s)", failed)
	}
	return nil
}

func readDraft(stdin io.Reader, path string) (intake.VisitDraft, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return intake.VisitDraft{}, fmt.Errorf("opening draft: %w", err)
		}
		defer f.Close()
		r = f
	}

	var draft intake.VisitDraft
	if err := json.NewDecoder(r).Decode(&draft); err != nil {
		return intake.VisitDraft{}, fmt.Errorf("decoding draft: %w", err)
	}
	return draft, nil
}

func printReports(w io.Writer, reports []stepReport) {
	for _, r := range reports {
		if r.Valid {
			fmt.Fprintf(w, "Step %d (%s): valid\n", r.Step, r.Label)
			continue
		}

		fmt.Fprintf(w, "Step %d (%s): %d error(s)\n", r.Step, r.Label, len(r.Errors))
		fields := make([]string, 0, len(r.Errors))
		for field := range r.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(w, "  %s: %s\n", field, r.Errors[field])
		}
	}
}
