package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"packbrowser/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a file or directory",
	Long: `Delete a file, or a directory with everything inside it.

Warning: This operation cannot be undone.

Examples:
  packbrowser-cli rm Content/Old/Rock.pak
  packbrowser-cli rm Content/Old`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteCommand(GetSession(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
