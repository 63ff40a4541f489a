package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the task store",
		Long: `Initialize the task store in the data directory.

The data directory is $TDG_HOME, $XDG_DATA_HOME/three-daily-goals or
~/.local/share/three-daily-goals, in that order. The store type (json,
sqlite or git) is read from the [store] section of config.toml.

Running init on an existing store is not an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.InitStoreUseCase().Execute(cmd.Context(), usecase.InitStoreInput{})
			if err != nil {
				return err
			}

			if out.Created {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s store in %s\n", c.AppConfig.Store.Type, c.Config.DataDir)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Store already initialized in %s\n", c.Config.DataDir)
			}
			return nil
		},
	}
}
