// ABOUTME: Rename command
// ABOUTME: Changes an activity's display name

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id> <name>...",
	Short: "Rename an activity",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(args[0])
		if err != nil {
			return err
		}
		a, err := svc.Rename(id, strings.Join(args[1:], " "))
		if err != nil {
			return fmt.Errorf("failed to rename: %w", err)
		}
		reportEdit(cmd.OutOrStdout(), "Renamed", a)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
