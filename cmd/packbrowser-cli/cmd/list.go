package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"packbrowser/internal/application/commands"
)

var listCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List a directory",
	Long: `List the entries of a directory, directories first. Paths are absolute
or relative to the browsing root.

Examples:
  packbrowser-cli ls
  packbrowser-cli ls Content/Characters`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}

		entries, err := commands.NewListCommand(GetSession(), path).Execute(cmd.Context())
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintln(cmd.OutOrStdout(), displayName(e))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
