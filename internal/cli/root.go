// Package cli provides the command-line interface for loom.
package cli

import (
	"fmt"

	"github.com/okatsu/loom/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupSetup    = "setup"
	groupTask     = "task"
	groupGraph    = "graph"
	groupSchedule = "schedule"
)

// NewRootCommand creates the root command for loom.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "loom",
		Short: "Dependency-aware task graph CLI",
		Long: `loom tracks work as a dependency graph instead of a flat list.

Tasks depend on other tasks; loom keeps the graph acyclic, derives the
status of decomposed tasks from their children, and answers the question
"what is safe to work on next" from the graph structure.

State lives in a .loom/ directory found by walking up from the current
directory, so a graph travels with the project it describes.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "init" {
				return nil
			}
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupGraph, Title: "Graph Operations:"},
		&cobra.Group{ID: groupSchedule, Title: "Scheduling:"},
	)

	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	newCmd := newNewCommand(c)
	newCmd.GroupID = groupTask

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	editCmd := newEditCommand(c)
	editCmd.GroupID = groupTask

	statusCmd := newStatusCommand(c)
	statusCmd.GroupID = groupTask

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTask

	decomposeCmd := newDecomposeCommand(c)
	decomposeCmd.GroupID = groupTask

	depCmd := newDepCommand(c)
	depCmd.GroupID = groupGraph

	healthCmd := newHealthCommand(c)
	healthCmd.GroupID = groupGraph

	importCmd := newImportCommand(c)
	importCmd.GroupID = groupGraph

	readyCmd := newReadyCommand(c)
	readyCmd.GroupID = groupSchedule

	nextCmd := newNextCommand(c)
	nextCmd.GroupID = groupSchedule

	blockedCmd := newBlockedCommand(c)
	blockedCmd.GroupID = groupSchedule

	root.AddCommand(
		initCmd,
		newCmd, listCmd, showCmd, editCmd, statusCmd, rmCmd, decomposeCmd,
		depCmd, healthCmd, importCmd,
		readyCmd, nextCmd, blockedCmd,
	)

	return root
}

// printWarnings surfaces non-fatal repairs applied during a mutation.
func printWarnings(cmd *cobra.Command, warnings []string) {
	for _, w := range warnings {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render("Note: "+w))
	}
}
