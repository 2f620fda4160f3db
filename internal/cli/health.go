package cli

import (
	"fmt"
	"strings"

	"github.com/okatsu/loom/internal/app"
	"github.com/okatsu/loom/internal/usecase"
	"github.com/spf13/cobra"
)

// newHealthCommand creates the health command.
func newHealthCommand(c *app.Container) *cobra.Command {
	var opts struct {
		FixInvalid   bool
		FixRedundant bool
	}

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the structural health of the graph",
		Long: `Check the graph for structural problems:

- redundant edges: direct dependencies already implied transitively
- invalid edges: dependencies on tasks that no longer exist
- cycles: dependency loops (only possible in a hand-edited snapshot)

Findings are reported, never fixed silently. Use --fix-invalid and
--fix-redundant to apply the corresponding repairs and persist them.

Examples:
  loom health
  loom health --fix-invalid
  loom health --fix-invalid --fix-redundant`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			if opts.FixInvalid || opts.FixRedundant {
				uc := c.RepairGraphUseCase()
				out, err := uc.Execute(cmd.Context(), usecase.RepairGraphInput{
					FixInvalid:   opts.FixInvalid,
					FixRedundant: opts.FixRedundant,
				})
				if err != nil {
					return err
				}
				if opts.FixInvalid {
					_, _ = fmt.Fprintf(w, "Removed %d invalid dependency edge(s)\n", out.InvalidRemoved)
				}
				if opts.FixRedundant {
					_, _ = fmt.Fprintf(w, "Removed %d redundant dependency edge(s)\n", out.RedundantRemoved)
				}
			}

			uc := c.GraphHealthUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}
			report := out.Report

			if report.Healthy {
				_, _ = fmt.Fprintln(w, successStyle.Render("Graph is healthy."))
				return nil
			}

			if len(report.Invalid) > 0 {
				_, _ = fmt.Fprintf(w, "Invalid edges (%d):\n", len(report.Invalid))
				for _, e := range report.Invalid {
					_, _ = fmt.Fprintf(w, "  %s\n", e)
				}
			}
			if len(report.Redundant) > 0 {
				_, _ = fmt.Fprintf(w, "Redundant edges (%d):\n", len(report.Redundant))
				for _, e := range report.Redundant {
					_, _ = fmt.Fprintf(w, "  %s\n", e)
				}
			}
			if len(report.Cycles) > 0 {
				_, _ = fmt.Fprintf(w, "Cycles (%d):\n", len(report.Cycles))
				for _, cycle := range report.Cycles {
					_, _ = fmt.Fprintf(w, "  %s\n", strings.Join(cycle, " -> "))
				}
			}

			_, _ = fmt.Fprintln(w, warningStyle.Render("Run 'loom health --fix-invalid --fix-redundant' to repair."))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.FixInvalid, "fix-invalid", false, "Remove dangling dependency edges")
	cmd.Flags().BoolVar(&opts.FixRedundant, "fix-redundant", false, "Remove transitively implied direct edges")

	return cmd
}
