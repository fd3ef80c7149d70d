// ABOUTME: Restore command for loading a YAML backup
// ABOUTME: Replaces stored activities with the backed-up documents

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/trackedit/internal/storage"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore data from a YAML backup",
	Long: `Restore activities and original files from a YAML backup file.

This restores data from a backup created with 'trackedit backup'.
Activities already present with the same ID are replaced by the backed-up
version; other stored activities are left alone.

Examples:
  trackedit restore activities.yaml
  trackedit restore ~/backups/trackedit-20241214.yaml --confirm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		out := cmd.OutOrStdout()
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			fmt.Fprintf(out, "Restore data from '%s'? [y/N] ", filename)
			reader := bufio.NewReader(cmd.InOrStdin())
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
		}

		summary, err := storage.ImportFromYAML(repo, data)
		if err != nil {
			return fmt.Errorf("failed to restore: %w", err)
		}

		color.New(color.FgGreen).Fprintln(out, "Restore complete")
		fmt.Fprintf(out, "  %d activities, %d original files restored\n", summary.Activities, summary.Originals)

		return nil
	},
}

func init() {
	restoreCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(restoreCmd)
}
