// ABOUTME: Split command
// ABOUTME: Splits a lap in two at a track point

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var splitCmd = &cobra.Command{
	Use:   "split <id> --lat <latitude> --lng <longitude> (--time <ms> | --index <n>)",
	Short: "Split a lap at a track point",
	Long: `Split the lap holding the given point into two laps. The point becomes
the first point of the second lap, so it cannot be the first or last point
of its lap. Later laps are renumbered.

Examples:
  trackedit split 3f2a --lat 43.36029 --lng -5.84476 --time 1714557610000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(args[0])
		if err != nil {
			return err
		}
		a, err := svc.SplitLap(id, pointFlags(cmd))
		if err != nil {
			return fmt.Errorf("failed to split lap: %w", err)
		}
		reportEdit(cmd.OutOrStdout(), "Split lap", a)
		return nil
	},
}

func init() {
	addPointFlags(splitCmd)

	rootCmd.AddCommand(splitCmd)
}
