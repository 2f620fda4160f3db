package cli

import (
	"fmt"
	"os"

	"github.com/okatsu/loom/internal/app"
	"github.com/okatsu/loom/internal/usecase"
	"github.com/spf13/cobra"
)

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-import tasks from a YAML file",
		Long: `Import a batch of tasks that reference each other by temporary ids.

The whole batch is validated first; an invalid batch (duplicate or
unknown temp ids, internal cycle) is rejected before any task is
created. Valid batches are committed in dependency order.

File format:
  tasks:
    - id: schema
      title: Design schema
    - id: migration
      title: Write migration
      depends_on: [schema]
    - id: deploy
      title: Deploy
      depends_on: [migration]
      depends_on_existing: [<existing-task-id>]
      kind: task
      priority: 1

Examples:
  loom import tasks.yaml
  loom import tasks.yaml --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			uc := c.ImportTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ImportTasksInput{
				Content: content,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			printWarnings(cmd, out.Warnings)

			w := cmd.OutOrStdout()
			if out.DryRun {
				_, _ = fmt.Fprintln(w, "Dry run - tasks that would be created, in commit order:")
			}
			for _, imported := range out.Tasks {
				_, _ = fmt.Fprintf(w, "  %s  %s  (%s)\n", imported.Task.ID, imported.Task.Title, imported.TempID)
			}
			if !out.DryRun {
				_, _ = fmt.Fprintf(w, "Imported %d task(s)\n", len(out.Tasks))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and order the batch without creating tasks")

	return cmd
}
