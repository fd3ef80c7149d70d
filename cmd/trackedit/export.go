// ABOUTME: Export command for GPX, TCX, and GeoJSON output
// ABOUTME: Can also write back the original file an activity was imported from

package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/trackedit/internal/edit"
	"github.com/harper/trackedit/internal/models"
)

var exportFormats = []string{models.FormatGPX, models.FormatTCX, edit.FormatGeoJSON}

var exportCmd = &cobra.Command{
	Use:     "export <id>",
	Aliases: []string{"e"},
	Short:   "Export an activity",
	Long: `Export the edited activity as GPX, TCX, or GeoJSON. GeoJSON output has
one LineString feature per lap carrying the lap's statistics and colors.

With --original the file the activity was imported from is written out
unchanged instead.

Examples:
  trackedit export 3f2a --format gpx -o edited.gpx
  trackedit export 3f2a --format geojson > laps.geojson
  trackedit export 3f2a --original -o upload.tcx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		original, _ := cmd.Flags().GetBool("original")

		id, err := resolveID(args[0])
		if err != nil {
			return err
		}

		var data []byte
		if original {
			orig, err := svc.Original(id)
			if err != nil {
				return fmt.Errorf("failed to load original: %w", err)
			}
			data = orig.Data
		} else {
			if !slices.Contains(exportFormats, format) {
				return fmt.Errorf("unsupported format: %s (use 'gpx', 'tcx', or 'geojson')", format)
			}
			data, err = svc.Export(id, format)
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
		}

		if output == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // exported files are meant to be shared
			return fmt.Errorf("failed to write file: %w", err)
		}
		color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "✓ Exported to %s\n", output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", models.FormatGPX, "output format: gpx, tcx, or geojson")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().Bool("original", false, "write the original imported file")

	rootCmd.AddCommand(exportCmd)
}
