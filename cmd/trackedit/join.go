// ABOUTME: Join command
// ABOUTME: Merges two laps into one

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var joinCmd = &cobra.Command{
	Use:   "join <id> <lap> <lap>",
	Short: "Join two adjacent laps",
	Long: `Merge two adjacent laps into one placed at the lower index. Calories, distance
and time are summed, points are concatenated, and the remaining laps are
renumbered.

Examples:
  trackedit join 3f2a 1 2`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(args[0])
		if err != nil {
			return err
		}
		i, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid lap index %q", args[1])
		}
		j, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid lap index %q", args[2])
		}

		a, err := svc.JoinLaps(id, &i, &j)
		if err != nil {
			return fmt.Errorf("failed to join laps: %w", err)
		}
		reportEdit(cmd.OutOrStdout(), fmt.Sprintf("Joined laps %d and %d", min(i, j), max(i, j)), a)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(joinCmd)
}
