package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"packbrowser/internal/adapters/manifest"
	"packbrowser/internal/application/commands"
	"packbrowser/internal/config"
)

var (
	exportIndex int
	exportName  string
	pageSize    int
)

var exportsCmd = &cobra.Command{
	Use:   "exports <container>",
	Short: "Show the export table of a package container",
	Long: `Show the window of a container's export table that holds an export.
Containers with fewer than 5000 exports are shown whole; larger ones are
paged and only the page holding the requested export is read.

Run "import" first to load the container's manifest into the catalog.

Examples:
  packbrowser-cli exports Content/World.pak
  packbrowser-cli exports Content/World.pak --index 47
  packbrowser-cli exports Content/World.pak --name SM_Rock_01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := GetCatalog()
		if err != nil {
			return err
		}

		entries, err := commands.NewListCommand(GetSession(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) != 1 || entries[0].IsDir {
			return fmt.Errorf("%s is not a package container", args[0])
		}

		exports := commands.NewExportsCommand(catalog, entries[0].Path, exportIndex, pageSize)
		exports.ExportName = exportName
		result, err := exports.Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n", result.Container, result.Label)
		for _, e := range result.Exports {
			fmt.Fprintf(out, "%6d  %-40s  %s\n", e.Index, e.Name, e.Class)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [container]",
	Short: "Import export manifests into the catalog",
	Long: `Import export manifests into the export catalog. A manifest is the JSON
file "<container>.exports.json" next to a container. Without an argument
every container below the root that has a manifest is imported.

Examples:
  packbrowser-cli import
  packbrowser-cli import Content/World.pak`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := GetCatalog()
		if err != nil {
			return err
		}

		container := ""
		if len(args) == 1 {
			container = args[0]
		}
		result, err := commands.NewImportExportsCommand(GetSession(), catalog, manifest.NewReader(), container).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	exportsCmd.Flags().IntVarP(&exportIndex, "index", "i", 0, "zero-based export index to show")
	exportsCmd.Flags().StringVarP(&exportName, "name", "n", "", "export name to show instead of an index")
	exportsCmd.Flags().IntVar(&pageSize, "page-size", config.PageSize(), "exports per page for large containers")
	rootCmd.AddCommand(exportsCmd)
	rootCmd.AddCommand(importCmd)
}
