package cli

import (
	"fmt"

	"github.com/okatsu/loom/internal/app"
	"github.com/okatsu/loom/internal/infra/config"
	"github.com/okatsu/loom/internal/usecase"
	"github.com/spf13/cobra"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a loom directory",
		Long: `Initialize a .loom/ directory in the current directory.

This command creates:
- tasks.json: empty task snapshot
- config.toml: commented configuration file
- logs/: directory for log files

Running init in an already-initialized directory is safe; the existing
store is left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{
				LoomDir:       c.Config.LoomDir,
				ConfigExample: config.Example(),
			})
			if err != nil {
				return err
			}

			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "loom already initialized in %s\n", out.LoomDir)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized loom in %s\n", out.LoomDir)
			return nil
		},
	}
}
