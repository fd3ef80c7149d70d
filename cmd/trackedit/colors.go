// ABOUTME: Colors command
// ABOUTME: Sets the display colors of one lap

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var colorsCmd = &cobra.Command{
	Use:   "colors <id> <lap> <primary-secondary>",
	Short: "Set a lap's display colors",
	Long: `Set the primary and light color used when drawing a lap. Colors are hex
values joined by a dash, with or without the leading '#'.

Examples:
  trackedit colors 3f2a 0 ff0000-ffcccc`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveID(args[0])
		if err != nil {
			return err
		}
		lap, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid lap index %q", args[1])
		}

		pair := strings.ReplaceAll(args[2], "#", "")
		a, err := svc.SetLapColors(id, lap, pair)
		if err != nil {
			return fmt.Errorf("failed to set colors: %w", err)
		}
		reportEdit(cmd.OutOrStdout(), fmt.Sprintf("Lap %d colors set to %s / %s", lap, a.Laps[lap].Color, a.Laps[lap].LightColor), a)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(colorsCmd)
}
