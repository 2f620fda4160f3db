package cli

import (
	"fmt"

	"github.com/okatsu/loom/internal/app"
	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/graph"
	"github.com/okatsu/loom/internal/usecase"
	"github.com/spf13/cobra"
)

// newDecomposeCommand creates the decompose command.
func newDecomposeCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Mode     string
		Children []string
		Chain    bool
	}

	cmd := &cobra.Command{
		Use:   "decompose <id>",
		Short: "Decompose a task into children",
		Long: `Decompose a task into child tasks. The parent becomes a container:
its status is no longer set directly but derived from the children
through the decomposition mode.

Modes:
  and          every child must close (default)
  or_fallback  any child closing closes the parent; ordered alternatives
  or_race      any child closing closes the parent; parallel attempts
  choice       a decision point: resolving any child resolves it

With --chain, each child depends on the previous one, turning the
children into a sequential pipeline.

Examples:
  loom decompose <id> --child "Design schema" --child "Write migration" --chain
  loom decompose <id> --mode or_fallback --child "Use API v2" --child "Scrape fallback"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			children := make([]graph.ChildSpec, len(opts.Children))
			for i, title := range opts.Children {
				children[i] = graph.ChildSpec{Title: title}
				if opts.Chain && i > 0 {
					children[i].DependsOn = []int{i - 1}
				}
			}

			uc := c.DecomposeUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.DecomposeInput{
				ParentID: args[0],
				Type:     domain.DecompositionType(opts.Mode),
				Children: children,
			})
			if err != nil {
				return err
			}

			printWarnings(cmd, out.Warnings)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Decomposed %s into %d task(s):\n", args[0], len(out.Children))
			for _, child := range out.Children {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", child.ID, child.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", string(domain.DecomposeAnd), "Decomposition mode: and, or_fallback, or_race, choice")
	cmd.Flags().StringArrayVar(&opts.Children, "child", nil, "Child task title (can specify multiple, required)")
	_ = cmd.MarkFlagRequired("child")
	cmd.Flags().BoolVar(&opts.Chain, "chain", false, "Chain children: each depends on the previous one")

	return cmd
}
