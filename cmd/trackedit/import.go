// ABOUTME: Import command for GPX and TCX activity files
// ABOUTME: Parses each file, derives missing metrics, and stores the activity

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/trackedit/internal/ui"
)

var importCmd = &cobra.Command{
	Use:     "import <file>...",
	Aliases: []string{"i"},
	Short:   "Import GPX or TCX activity files",
	Long: `Import one or more activity files.

The format is detected from the file extension, or from the document itself
when the extension is not recognised. Missing distances, speeds and lap
statistics are derived on import; altitudes are looked up when an elevation
service is configured.

Examples:
  trackedit import morning-run.gpx
  trackedit import ~/Downloads/*.tcx`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, filename := range args {
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			a, err := svc.Import(cmd.Context(), filename, data)
			if err != nil {
				failed++
				color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", filename, err)
				continue
			}
			color.New(color.FgGreen).Fprintf(out, "✓ Imported %s ", filename)
			fmt.Fprintf(out, "as %s\n", ui.ShortID(a))
			fmt.Fprintln(out, "  "+ui.FormatActivity(a))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to import", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
