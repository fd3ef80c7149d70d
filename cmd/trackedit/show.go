// ABOUTME: Show command for a single activity
// ABOUTME: Prints the summary, every lap, and optionally every track point

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harper/trackedit/internal/models"
	"github.com/harper/trackedit/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an activity with its laps",
	Long: `Show an activity's summary and laps.

Use --points to list every track point with the coordinates, time and index
the editing commands expect.

Examples:
  trackedit show 3f2a
  trackedit show 3f2a --points`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadActivity(args[0])
		if err != nil {
			return err
		}
		points, _ := cmd.Flags().GetBool("points")
		printActivity(cmd.OutOrStdout(), a, points)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolP("points", "p", false, "list track points")

	rootCmd.AddCommand(showCmd)
}

func printActivity(out io.Writer, a *models.Activity, points bool) {
	fmt.Fprintln(out, ui.FormatSummary(a))
	fmt.Fprintln(out)
	for i := range a.Laps {
		fmt.Fprintln(out, ui.FormatLap(&a.Laps[i]))
		if !points {
			continue
		}
		for j := range a.Laps[i].Tracks {
			fmt.Fprintln(out, ui.FormatPoint(&a.Laps[i].Tracks[j]))
		}
	}
}
