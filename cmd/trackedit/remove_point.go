// ABOUTME: Remove-point command
// ABOUTME: Deletes one track point and recomputes the affected metrics

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/trackedit/internal/edit"
	"github.com/harper/trackedit/internal/models"
	"github.com/harper/trackedit/internal/ui"
)

var removePointCmd = &cobra.Command{
	Use:   "remove-point <id> --lat <latitude> --lng <longitude> (--time <ms> | --index <n>)",
	Short: "Remove one track point",
	Long: `Remove the track point at the given position that also has the given
time (epoch milliseconds) or index. Use 'trackedit show <id> --points' to
find them.

A lap left without points is removed. Distances and speeds after the point
are recomputed, as are the lap's statistics.

Examples:
  trackedit remove-point 3f2a --lat 43.36029 --lng -5.84476 --time 1714557610000
  trackedit remove-point 3f2a --lat 43.36029 --lng -5.84476 --index 12`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(args[0])
		if err != nil {
			return err
		}
		a, err := svc.RemovePoint(id, pointFlags(cmd))
		if err != nil {
			return fmt.Errorf("failed to remove point: %w", err)
		}
		reportEdit(cmd.OutOrStdout(), "Removed point", a)
		return nil
	},
}

func init() {
	addPointFlags(removePointCmd)

	rootCmd.AddCommand(removePointCmd)
}

// addPointFlags registers the flags that identify a track point.
func addPointFlags(cmd *cobra.Command) {
	cmd.Flags().String("lat", "", "latitude of the point")
	cmd.Flags().String("lng", "", "longitude of the point")
	cmd.Flags().StringP("time", "t", "", "point time in epoch milliseconds")
	cmd.Flags().StringP("index", "i", "", "point index")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
}

func pointFlags(cmd *cobra.Command) edit.PointParams {
	lat, _ := cmd.Flags().GetString("lat")
	lng, _ := cmd.Flags().GetString("lng")
	ts, _ := cmd.Flags().GetString("time")
	index, _ := cmd.Flags().GetString("index")
	return edit.PointParams{Latitude: lat, Longitude: lng, TimeMillis: ts, Index: index}
}

func reportEdit(out io.Writer, what string, a *models.Activity) {
	color.New(color.FgGreen).Fprintf(out, "✓ %s\n", what)
	fmt.Fprintf(out, "  %s  %s\n", ui.ShortID(a), ui.FormatActivity(a))
}
