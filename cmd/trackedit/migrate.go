// ABOUTME: Migration command for copying activity data between storage backends
// ABOUTME: Supports sqlite-to-charm and charm-to-sqlite with safety checks

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/trackedit/internal/config"
	"github.com/harper/trackedit/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Copy every activity and original file from the currently configured
backend to a different backend.

Does NOT update the config file; verify the migration was successful then
update config.json or set TRACKEDIT_BACKEND.

Examples:
  trackedit migrate --to charm
  trackedit migrate --to sqlite --data-dir ~/trackedit-sqlite
  trackedit migrate --to sqlite --force`,
	RunE: runMigrate,
}

var (
	migrateTo      string
	migrateDataDir string
	migrateForce   bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (sqlite or charm)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "target data directory for sqlite (defaults to current config data_dir)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow writing into a non-empty target directory")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetBackend()
	targetBackend := migrateTo

	if targetBackend != config.BackendSQLite && targetBackend != config.BackendCharm {
		return fmt.Errorf("invalid target backend %q: must be %q or %q", targetBackend, config.BackendSQLite, config.BackendCharm)
	}
	if targetBackend == sourceBackend {
		return fmt.Errorf("target backend %q is the same as the current backend", targetBackend)
	}

	target := *cfg
	target.Backend = targetBackend
	if migrateDataDir != "" {
		target.DataDir = migrateDataDir
	}

	if targetBackend == config.BackendSQLite {
		nonEmpty, err := storage.IsDirNonEmpty(target.GetDataDir())
		if err != nil {
			return fmt.Errorf("check target directory: %w", err)
		}
		if nonEmpty && !migrateForce {
			return fmt.Errorf("target directory %q is not empty; use --force to overwrite", target.GetDataDir())
		}
	}

	dst, err := target.OpenStorage()
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	color.New(color.FgYellow).Fprintln(out, "Migrating activity data:")
	fmt.Fprintf(out, "  Source:  %s\n", sourceBackend)
	fmt.Fprintf(out, "  Target:  %s (%s)\n", targetBackend, describeTarget(&target))
	fmt.Fprintln(out)

	summary, err := storage.MigrateData(repo, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := dst.Sync(); err != nil {
		logger.Warn("target sync failed", "err", err)
	}

	color.New(color.FgGreen).Fprintln(out, "Migration complete!")
	fmt.Fprintf(out, "  Activities: %d\n", summary.Activities)
	fmt.Fprintf(out, "  Originals:  %d\n", summary.Originals)
	fmt.Fprintln(out)
	color.New(color.FgYellow).Fprintln(out, "Note: config.json was NOT updated. To switch to the new backend, edit:")
	fmt.Fprintf(out, "  %s\n", config.GetConfigPath())
	fmt.Fprintf(out, "  Set \"backend\": %q", targetBackend)
	if migrateDataDir != "" {
		fmt.Fprintf(out, " and \"data_dir\": %q", migrateDataDir)
	}
	fmt.Fprintln(out)

	return nil
}

func describeTarget(c *config.Config) string {
	if c.GetBackend() == config.BackendSQLite {
		return c.DBPath()
	}
	if c.CharmHost != "" {
		return c.CharmHost
	}
	return "default charm host"
}
