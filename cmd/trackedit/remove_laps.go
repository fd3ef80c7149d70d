// ABOUTME: Remove-laps command
// ABOUTME: Deletes laps by index, optionally checked against start times

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harper/trackedit/internal/edit"
)

var removeLapsCmd = &cobra.Command{
	Use:   "remove-laps <id> <lap>...",
	Short: "Remove one or more laps",
	Long: `Remove laps by index. With --start, each index is only removed if the lap
also starts at the paired epoch-millisecond time, in the same order as the
indices. Remaining laps are renumbered.

Examples:
  trackedit remove-laps 3f2a 0 3
  trackedit remove-laps 3f2a 0 --start 1714557600000`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(args[0])
		if err != nil {
			return err
		}

		indices := make([]int, 0, len(args)-1)
		for _, raw := range args[1:] {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("invalid lap index %q", raw)
			}
			indices = append(indices, n)
		}

		rawStarts, err := cmd.Flags().GetStringSlice("start")
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		starts, err := edit.ParseStartTimes(rawStarts)
		if err != nil {
			return err
		}

		a, err := svc.RemoveLaps(id, starts, indices)
		if err != nil {
			return fmt.Errorf("failed to remove laps: %w", err)
		}
		reportEdit(cmd.OutOrStdout(), "Removed laps", a)
		return nil
	},
}

func init() {
	removeLapsCmd.Flags().StringSlice("start", nil, "lap start times in epoch milliseconds, paired with the indices")

	rootCmd.AddCommand(removeLapsCmd)
}
