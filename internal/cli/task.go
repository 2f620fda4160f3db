package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/okatsu/loom/internal/app"
	"github.com/okatsu/loom/internal/domain"
	"github.com/okatsu/loom/internal/usecase"
	"github.com/spf13/cobra"
)

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Kind        string
		Execution   string
		DependsOn   []string
		Priority    int
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task in the graph.

The task is created with status 'open'. Dependencies can be attached at
creation time; edges that would be invalid (unknown id, self reference,
cycle) are dropped with a note instead of failing the whole command.

Examples:
  # Create a root task
  loom new --title "Auth refactoring"

  # Create a task that waits on two others
  loom new --title "Deploy" --depends-on <id1> --depends-on <id2>

  # Create a high-priority bug eligible for automation
  loom new --title "Fix login crash" --kind bug --priority 0 --execution auto`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.CreateTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.CreateTaskInput{
				Title:        opts.Title,
				Description:  opts.Description,
				Kind:         domain.Kind(opts.Kind),
				Execution:    domain.ExecutionMode(opts.Execution),
				Dependencies: opts.DependsOn,
				Priority:     opts.Priority,
			})
			if err != nil {
				return err
			}

			printWarnings(cmd, out.Warnings)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required)")
	_ = cmd.MarkFlagRequired("title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "Task description")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Work-item kind (goal, task, bug, ...; default task)")
	cmd.Flags().StringVar(&opts.Execution, "execution", "", "Execution mode: auto or manual (default manual)")
	cmd.Flags().StringArrayVar(&opts.DependsOn, "depends-on", nil, "Dependency task IDs (can specify multiple)")
	cmd.Flags().IntVar(&opts.Priority, "priority", domain.PriorityDefault, "Priority 0 (highest) .. 4 (lowest)")

	return cmd
}

// newEditCommand creates the edit command for updating tasks.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Kind        string
		Execution   string
		DependsOn   []string
		Priority    int
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing task",
		Long: `Edit fields of an existing task. Only flags that are set are applied.

--depends-on replaces the whole dependency set; pass it once per edge.
Replacement edges that would be invalid are dropped with a note.

Examples:
  loom edit <id> --title "New title"
  loom edit <id> --priority 1
  loom edit <id> --depends-on <dep1> --depends-on <dep2>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := usecase.EditTaskInput{TaskID: args[0]}
			if cmd.Flags().Changed("title") {
				in.Title = &opts.Title
			}
			if cmd.Flags().Changed("body") {
				in.Description = &opts.Description
			}
			if cmd.Flags().Changed("priority") {
				in.Priority = &opts.Priority
			}
			if cmd.Flags().Changed("kind") {
				kind := domain.Kind(opts.Kind)
				in.Kind = &kind
			}
			if cmd.Flags().Changed("execution") {
				mode := domain.ExecutionMode(opts.Execution)
				in.Execution = &mode
			}
			if cmd.Flags().Changed("depends-on") {
				in.Dependencies = &opts.DependsOn
			}

			uc := c.EditTaskUseCase()
			out, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			printWarnings(cmd, out.Warnings)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "body", "", "New description")
	cmd.Flags().IntVar(&opts.Priority, "priority", domain.PriorityDefault, "New priority 0..4")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "New kind")
	cmd.Flags().StringVar(&opts.Execution, "execution", "", "New execution mode: auto or manual")
	cmd.Flags().StringArrayVar(&opts.DependsOn, "depends-on", nil, "Replace the dependency set (can specify multiple)")

	return cmd
}

// newStatusCommand creates the status command for authoring task status.
func newStatusCommand(c *app.Container) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "status <id> <open|in_progress|closed|failed>",
		Short: "Set a task's status",
		Long: `Set the authored status of a leaf task.

Tasks with children derive their status from the children and cannot be
set directly. A failure reason is only accepted together with 'failed'.

Examples:
  loom status <id> in_progress
  loom status <id> closed
  loom status <id> failed --reason "flaky upstream API"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.SetStatusUseCase()
			if _, err := uc.Execute(cmd.Context(), usecase.SetStatusInput{
				TaskID:        args[0],
				Status:        domain.Status(args[1]),
				FailureReason: reason,
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is now %s\n", args[0], renderStatus(domain.Status(args[1])))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Failure reason (only with failed)")

	return cmd
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task from the graph.

The task is scrubbed from every other task's dependency set, so no
dangling edge survives the deletion. Children of the deleted task become
roots.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.DeleteTaskUseCase()
			if err := uc.Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: args[0]}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
			return nil
		},
	}
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status string
		Kind   string
		All    bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display the tasks in the graph.

By default, tasks with terminal effective status (closed, failed) are
hidden. Use --all to show everything. The STATUS column shows the
effective status: for decomposed tasks this is derived from children.

Examples:
  # List active tasks
  loom list

  # List everything including closed and failed
  loom list --all

  # List only tasks that are effectively in progress
  loom list --status in_progress

  # List only bugs
  loom list --kind bug`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := usecase.ListTasksInput{IncludeTerminal: opts.All}
			if opts.Status != "" {
				status := domain.Status(opts.Status)
				in.Status = &status
			}
			if opts.Kind != "" {
				kind := domain.Kind(opts.Kind)
				in.Kind = &kind
			}

			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			printTaskList(cmd.OutOrStdout(), out.Tasks)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Show all tasks including closed and failed")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by effective status")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Filter by kind")

	return cmd
}

// printTaskList prints tasks in TSV format.
func printTaskList(w io.Writer, tasks []usecase.TaskView) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tKIND\tPRI\tDEPS\tTITLE")

	for _, view := range tasks {
		statusStr := renderStatus(view.Effective)
		switch {
		case view.Ready:
			statusStr += " " + successStyle.Render("(ready)")
		case view.Blocked:
			statusStr += " " + mutedStyle.Render("(blocked)")
		}

		title := view.Task.Title
		if view.Children > 0 {
			title += mutedStyle.Render(fmt.Sprintf(" [%d children]", view.Children))
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			view.Task.ID,
			statusStr,
			view.Task.Kind,
			view.Task.Priority,
			len(view.Task.Dependencies),
			title,
		)
	}
}

// newShowCommand creates the show command for inspecting a task.
func newShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task with its graph context",
		Long: `Show a task together with its position in the graph: direct children,
current blockers, tasks it is holding up, and its transitive reach in
both directions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.ShowTaskUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			printTaskDetail(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// printTaskDetail prints the full task view.
func printTaskDetail(w io.Writer, out *usecase.ShowTaskOutput) {
	t := out.Task

	_, _ = fmt.Fprintf(w, "ID:         %s\n", t.ID)
	_, _ = fmt.Fprintf(w, "Title:      %s\n", t.Title)
	_, _ = fmt.Fprintf(w, "Status:     %s", renderStatus(out.Effective))
	if len(out.Children) > 0 && out.Effective != t.Status {
		_, _ = fmt.Fprintf(w, " (derived, %s decomposition)", t.Decomposition)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Kind:       %s\n", t.Kind)
	_, _ = fmt.Fprintf(w, "Execution:  %s\n", t.Execution)
	_, _ = fmt.Fprintf(w, "Priority:   %d\n", t.Priority)
	if t.ParentID != "" {
		_, _ = fmt.Fprintf(w, "Parent:     %s\n", t.ParentID)
	}
	if t.FailureReason != "" {
		_, _ = fmt.Fprintf(w, "Failure:    %s\n", errorStyle.Render(t.FailureReason))
	}
	if t.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", t.Description)
	}

	if len(out.Children) > 0 {
		_, _ = fmt.Fprintf(w, "\nChildren (%d):\n", len(out.Children))
		for _, child := range out.Children {
			_, _ = fmt.Fprintf(w, "  %s  %s\n", child.ID, child.Title)
		}
	}
	if len(out.Blockers) > 0 {
		_, _ = fmt.Fprintf(w, "\nBlocked by (%d):\n", len(out.Blockers))
		for _, b := range out.Blockers {
			_, _ = fmt.Fprintf(w, "  %s  %s\n", b.ID, b.Title)
		}
	}
	if len(out.Blocking) > 0 {
		_, _ = fmt.Fprintf(w, "\nBlocking (%d):\n", len(out.Blocking))
		for _, b := range out.Blocking {
			_, _ = fmt.Fprintf(w, "  %s  %s\n", b.ID, b.Title)
		}
	}

	_, _ = fmt.Fprintf(w, "\nTransitive dependencies: %d\n", len(out.TransitiveDeps))
	_, _ = fmt.Fprintf(w, "Transitive dependents:   %d\n", len(out.Dependents))
	_, _ = fmt.Fprintf(w, "Unblock score:           %d\n", out.UnblockScore)
	_, _ = fmt.Fprintf(w, "Blocker importance:      %.2f\n", out.Importance)
}
