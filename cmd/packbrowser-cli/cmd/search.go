package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"packbrowser/internal/application"
	"packbrowser/internal/application/commands"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search entry names",
	Long: `Search entry names below the browsing root, ignoring case.

Names that start with the query are listed first, then names that contain it.

Examples:
  packbrowser-cli search hero
  packbrowser-cli search .pak --limit 20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := commands.NewSearchCommand(GetSession(), args[0], searchLimit).Execute(cmd.Context())
		if errors.Is(err, application.ErrNoResults) {
			fmt.Fprintln(cmd.OutOrStdout(), "No results found")
			return nil
		}
		if err != nil {
			return err
		}

		for _, r := range results {
			kind := "file"
			if r.IsDir {
				kind = "dir"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", kind, r.Path)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results, 0 for all")
	rootCmd.AddCommand(searchCmd)
}
