package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okatsu/loom/internal/app"
	"github.com/okatsu/loom/internal/graph"
	"github.com/okatsu/loom/internal/usecase"
	"github.com/spf13/cobra"
)

// newReadyCommand creates the ready command.
func newReadyCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "List tasks that are safe to work on",
		Long: `List every task that is ready: effectively open with every dependency
effectively closed. The list is sorted by schedule score, highest first,
with the reasons behind each score.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.NextTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.NextTaskInput{All: true})
			if err != nil {
				return err
			}

			if len(out.Ready) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks are ready.")
				return nil
			}
			printScoredTasks(cmd.OutOrStdout(), out.Ready)
			return nil
		},
	}
}

// newNextCommand creates the next command.
func newNextCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the single best task to work on next",
		Long: `Show the highest-scored ready task. The score weighs how many tasks
closing this one would unblock, the weight of everything downstream,
the task's own priority, automation eligibility and age.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.NextTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.NextTaskInput{})
			if err != nil {
				return err
			}

			if out.Next == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks are ready.")
				return nil
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s  %s\n", out.Next.Task.ID, out.Next.Task.Title)
			_, _ = fmt.Fprintf(w, "Score: %d\n", out.Next.Score)
			for _, reason := range out.Next.Reasons {
				_, _ = fmt.Fprintf(w, "  - %s\n", reason)
			}
			return nil
		},
	}
}

// printScoredTasks prints the prioritized ready list in TSV format.
func printScoredTasks(w io.Writer, tasks []graph.ScoredTask) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "SCORE\tID\tTITLE\tWHY")
	for _, st := range tasks {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			st.Score,
			st.Task.ID,
			st.Task.Title,
			strings.Join(st.Reasons, "; "),
		)
	}
}

// newBlockedCommand creates the blocked command.
func newBlockedCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "blocked",
		Short: "List blocked tasks and what they are stuck on",
		Long: `List every open task waiting on at least one unclosed dependency.
Each task's blockers are ranked by importance: how much downstream work
each blocker is holding up, normalized to [0,1].`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.BlockedTasksUseCase()
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			if len(out.Blocked) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks are blocked.")
				return nil
			}

			w := cmd.OutOrStdout()
			for i, blocked := range out.Blocked {
				if i > 0 {
					_, _ = fmt.Fprintln(w)
				}
				_, _ = fmt.Fprintf(w, "%s  %s\n", blocked.Task.ID, blocked.Task.Title)
				for _, blocker := range blocked.Blockers {
					_, _ = fmt.Fprintf(w, "  stuck on %s  %s  (importance %.2f)\n",
						blocker.Task.ID, blocker.Task.Title, blocker.Importance)
				}
			}
			return nil
		},
	}
}
