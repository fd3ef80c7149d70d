// ABOUTME: Activity list command
// ABOUTME: Lists all stored activities, most recent first

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/trackedit/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := svc.List()
		if err != nil {
			return fmt.Errorf("failed to list activities: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(all) == 0 {
			fmt.Fprintln(out, "No activities yet. Use 'trackedit import' to add one.")
			return nil
		}

		for _, a := range all {
			fmt.Fprintf(out, "%s  %s\n", ui.ShortID(a), ui.FormatActivity(a))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
