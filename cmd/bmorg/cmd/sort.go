package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hnakamura/bmorg/internal/model"
	"github.com/hnakamura/bmorg/internal/ops"
)

var (
	sortMode      string
	sortFolder    string
	sortRecursive bool
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Sort a folder's children",
	Long: `Sort a folder's direct children. Folders always come before
bookmarks; within each kind the order follows the chosen mode.

Modes:
  title   alphabetical by title (case-insensitive)
  domain  by URL domain, then title

Examples:
  bmorg sort -f bookmarks.html --mode title
  bmorg sort -f bookmarks.html --folder Dev --mode domain --recursive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var mode ops.SortMode
		switch sortMode {
		case "title":
			mode = ops.SortByTitle
		case "domain":
			mode = ops.SortByDomain
		default:
			return fmt.Errorf("unknown sort mode %q (want title or domain)", sortMode)
		}

		doc, err := loadDocument()
		if err != nil {
			return err
		}
		folder, err := resolveFolder(doc.Root, sortFolder)
		if err != nil {
			return err
		}

		if sortRecursive {
			folder.Walk(func(n *model.Node) {
				if n.IsFolder() {
					ops.Sort(n, mode)
				}
			})
		} else {
			ops.Sort(folder, mode)
		}

		return doc.Save()
	},
}

func init() {
	sortCmd.Flags().StringVar(&sortMode, "mode", "title", "sort mode: title or domain")
	sortCmd.Flags().StringVar(&sortFolder, "folder", "", "folder path to sort (default: root)")
	sortCmd.Flags().BoolVar(&sortRecursive, "recursive", false, "also sort every folder below")
	rootCmd.AddCommand(sortCmd)
}
