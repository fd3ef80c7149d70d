// ABOUTME: Delete command
// ABOUTME: Removes an activity and its archived original file

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an activity",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadActivity(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			fmt.Fprintf(out, "Delete '%s' and its original file? [y/N] ", a.Name)
			reader := bufio.NewReader(cmd.InOrStdin())
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
		}

		if err := svc.Delete(a.ID); err != nil {
			return fmt.Errorf("failed to delete activity: %w", err)
		}
		color.New(color.FgGreen).Fprintf(out, "✓ Deleted %s\n", a.Name)
		return nil
	},
}

func init() {
	deleteCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(deleteCmd)
}
