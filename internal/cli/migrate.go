package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/three-daily-goals/internal/app"
	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/usecase"
)

// newMigrateCommand creates the migrate command.
func newMigrateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		To        string
		Namespace string
		DryRun    bool
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy all tasks into another store type",
		Long: `Copy every task from the current store into a store of another type in
the same data directory. Tasks already present and identical in the
destination are skipped; a task with the same ID but different content
aborts the migration before anything is written.

The current store is left untouched. Switch to the new store by setting
[store] type in config.toml.

Examples:
  # Move from the default JSON file to SQLite
  tdg migrate --to sqlite

  # Preview a migration into the git store under the "home" namespace
  tdg migrate --to git --namespace home --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			to := strings.ToLower(strings.TrimSpace(opts.To))
			if to == "" {
				return errors.New(`required flag(s) "to" not set`)
			}
			dest := domain.StoreConfig{Type: to, Namespace: opts.Namespace}
			if dest.Namespace == "" {
				dest.Namespace = domain.DefaultGitNamespace
			}
			current := c.AppConfig.Store
			if dest.Type == current.Type && (dest.Type != domain.StoreTypeGit || dest.Namespace == current.Namespace) {
				return fmt.Errorf("already using the %s store", dest.Type)
			}

			repo, destInit, err := app.OpenStore(c.Config.DataDir, dest)
			if err != nil {
				return err
			}
			if closer, ok := repo.(io.Closer); ok {
				defer func() { _ = closer.Close() }()
			}

			out, err := c.MigrateStoreUseCase(repo, destInit).Execute(cmd.Context(), usecase.MigrateStoreInput{DryRun: opts.DryRun})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.Total == 0 {
				_, _ = fmt.Fprintf(w, "No tasks found in %s store\n", current.Type)
				return nil
			}

			verb := "Migrated"
			if opts.DryRun {
				verb = "Would migrate"
			}
			summary := fmt.Sprintf("%s %d task(s) from %s store to %s store", verb, out.Migrated, current.Type, dest.Type)
			if out.Skipped > 0 {
				summary += fmt.Sprintf(" (skipped %d existing)", out.Skipped)
			}
			_, _ = fmt.Fprintln(w, summary)
			if !opts.DryRun {
				_, _ = fmt.Fprintf(w, "Set [store] type = %q in %s to use it\n", dest.Type, domain.DataConfigPath(c.Config.DataDir))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "Destination store type: json, sqlite, git")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "", "Ref namespace for the git store (default: tdg)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Count what would be copied without writing")

	return cmd
}
