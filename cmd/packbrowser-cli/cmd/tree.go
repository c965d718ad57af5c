package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"packbrowser/internal/application/commands"
)

var treeDepth int

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Display the directory tree",
	Long: `Display a directory and everything below it. Without a path the whole
browsing root is shown.

Examples:
  packbrowser-cli tree
  packbrowser-cli tree Content/Maps --depth 2`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}

		entries, err := commands.NewTreeCommand(GetSession(), path, treeDepth).Execute(cmd.Context())
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", strings.Repeat("  ", e.Depth), displayName(e))
		}
		return nil
	},
}

func displayName(e commands.ListEntry) string {
	if e.IsDir {
		return e.Name + "/"
	}
	return e.Name
}

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "depth", "d", 0, "maximum depth, 0 for unlimited")
	rootCmd.AddCommand(treeCmd)
}
