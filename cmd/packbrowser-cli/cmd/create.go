package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"packbrowser/internal/application/commands"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory",
	Long: `Create a directory. Its parent must already exist.

Examples:
  packbrowser-cli mkdir Archive
  packbrowser-cli mkdir Content/Maps/Desert`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Clean(args[0])
		create := commands.NewCreateFolderCommand(GetSession(), filepath.Dir(path), filepath.Base(path))
		result, err := create.Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
}
