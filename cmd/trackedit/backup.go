// ABOUTME: Backup command for exporting data to YAML
// ABOUTME: Creates portable backup files for data migration

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/trackedit/internal/storage"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a YAML backup of all data",
	Long: `Create a YAML backup file containing every activity and the original
files they were imported from.

The backup file can be used to:
- Migrate data between machines
- Restore after data loss
- Load into a fresh database with 'trackedit restore'

Examples:
  trackedit backup --output activities.yaml
  trackedit backup -o ~/backups/trackedit-$(date +%Y%m%d).yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		data, err := storage.ExportToYAML(repo)
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		if output == "" {
			output = fmt.Sprintf("trackedit-%s.yaml", time.Now().Format("20060102-150405"))
		}

		if err := os.WriteFile(output, data, 0600); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}

		all, _ := repo.ListActivities()

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "Backup created: %s\n", output)
		fmt.Fprintf(out, "  %d activities\n", len(all))

		return nil
	},
}

func init() {
	backupCmd.Flags().StringP("output", "o", "", "output file (default: trackedit-YYYYMMDD-HHMMSS.yaml)")

	rootCmd.AddCommand(backupCmd)
}
