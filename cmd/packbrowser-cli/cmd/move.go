package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"packbrowser/internal/application/commands"
)

var moveCmd = &cobra.Command{
	Use:   "mv <source> <destination>",
	Short: "Move a file or directory",
	Long: `Move a file or directory into another directory.

Rules:
- The destination must be an existing directory
- A directory cannot be moved into itself or below itself

Examples:
  packbrowser-cli mv Content/Old/Rock.pak Content/Props
  packbrowser-cli mv Content/Old Archive`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewMoveCommand(GetSession(), args[0], args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <path> <new-name>",
	Short: "Rename a file or directory",
	Long: `Rename a file or directory in place. The new name must not contain a
path separator.

Examples:
  packbrowser-cli rename Content/Maps/forest.pak Forest.pak`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRenameCommand(GetSession(), args[0], args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(renameCmd)
}
