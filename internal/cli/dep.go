package cli

import (
	"fmt"
	"strings"

	"github.com/okatsu/loom/internal/app"
	"github.com/okatsu/loom/internal/usecase"
	"github.com/spf13/cobra"
)

// newDepCommand creates the dep command group for dependency edges.
func newDepCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage dependency edges",
		Long: `Manage dependency edges between tasks.

An edge A -> B means A depends on B: A is not ready until B is closed.
The graph stays acyclic; an edge that would close a cycle is rejected
with the conflicting path and a numbered list of break options.`,
	}

	cmd.AddCommand(
		newDepAddCommand(c),
		newDepRmCommand(c),
		newDepReverseCommand(c),
	)

	return cmd
}

// newDepAddCommand creates the dep add command.
func newDepAddCommand(c *app.Container) *cobra.Command {
	var breakOption int

	cmd := &cobra.Command{
		Use:   "add <from> <to>",
		Short: "Add a dependency edge",
		Long: `Add the edge <from> -> <to>: <from> depends on <to>.

If the edge would close a cycle, it is rejected and the existing path
that conflicts with it is printed, along with numbered break options.
Re-run with --break N to remove the chosen existing edge and add the
new one in a single step. If N removes an edge that was not on every
cycle path, nothing is changed.

Examples:
  loom dep add <deploy-id> <build-id>
  loom dep add <deploy-id> <build-id> --break 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := args[0], args[1]

			if breakOption > 0 {
				return runDepBreak(cmd, c, from, to, breakOption)
			}

			uc := c.AddDependencyUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.AddDependencyInput{From: from, To: to})
			if out != nil && out.Cycle != nil {
				printCycle(cmd, out.Cycle.Path, out.Cycle.Proposed.To)
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "\nBreak options (re-run with --break N):")
				for i, opt := range out.Cycle.Options {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %d. remove %s\n", i+1, opt)
				}
				return fmt.Errorf("dependency %s -> %s not added", from, to)
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added dependency %s -> %s\n", from, to)
			return nil
		},
	}

	cmd.Flags().IntVar(&breakOption, "break", 0, "Break the reported cycle by removing option N first")

	return cmd
}

// runDepBreak resolves the break options for from -> to and applies the
// chosen one before adding the edge.
func runDepBreak(cmd *cobra.Command, c *app.Container, from, to string, n int) error {
	out, err := c.AddDependencyUseCase().Execute(cmd.Context(), usecase.AddDependencyInput{From: from, To: to})
	if err == nil {
		// No cycle after all; the plain add already went through.
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added dependency %s -> %s\n", from, to)
		return nil
	}
	if out == nil || out.Cycle == nil {
		return err
	}
	if n > len(out.Cycle.Options) {
		return fmt.Errorf("break option %d out of range (1..%d)", n, len(out.Cycle.Options))
	}

	chosen := out.Cycle.Options[n-1]
	uc := c.BreakCycleUseCase()
	if err := uc.Execute(cmd.Context(), usecase.BreakCycleInput{From: from, To: to, Chosen: chosen}); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed dependency %s\n", chosen)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added dependency %s -> %s\n", from, to)
	return nil
}

// printCycle renders the conflicting path of a rejected edge.
func printCycle(cmd *cobra.Command, path []string, closing string) {
	cycle := append(append([]string{}, path...), closing)
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("Edge rejected: would create a cycle"))
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", strings.Join(cycle, " -> "))
}

// newDepRmCommand creates the dep rm command.
func newDepRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <from> <to>",
		Short: "Remove a dependency edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.RemoveDependencyUseCase()
			if err := uc.Execute(cmd.Context(), usecase.RemoveDependencyInput{From: args[0], To: args[1]}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed dependency %s -> %s\n", args[0], args[1])
			return nil
		},
	}
}

// newDepReverseCommand creates the dep reverse command.
func newDepReverseCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse <from> <to>",
		Short: "Reverse a dependency edge",
		Long: `Reverse the edge <from> -> <to> into <to> -> <from>.

The reversal is atomic: if the reversed edge would itself be invalid,
the original edge is left exactly as it was.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ReverseDependencyUseCase()
			if err := uc.Execute(cmd.Context(), usecase.ReverseDependencyInput{From: args[0], To: args[1]}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reversed: %s -> %s is now %s -> %s\n", args[0], args[1], args[1], args[0])
			return nil
		},
	}
}
