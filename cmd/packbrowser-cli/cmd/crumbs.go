package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"packbrowser/internal/application/commands"
	"packbrowser/internal/config"
)

var crumbsMax int

var crumbsCmd = &cobra.Command{
	Use:   "crumbs <path>",
	Short: "Show the breadcrumb trail of a path",
	Long: `Show the trail from the browsing root to a path. Trails longer than
--max keep the root and the segments nearest the path and replace the rest
with an ellipsis.

Examples:
  packbrowser-cli crumbs Content/Maps/Forest/Props.pak
  packbrowser-cli crumbs Content/Maps/Forest --max 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewBreadcrumbsCommand(GetSession(), args[0], crumbsMax).Execute(cmd.Context())
		if err != nil {
			return err
		}

		names := make([]string, 0, len(result.Visible))
		for _, item := range result.Visible {
			names = append(names, item.Name)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, " › "))
		return nil
	},
}

func init() {
	crumbsCmd.Flags().IntVarP(&crumbsMax, "max", "m", config.MaxBreadcrumbs(), "maximum number of segments to show")
	rootCmd.AddCommand(crumbsCmd)
}
