package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showFolder string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the bookmark tree",
	Long: `Print the bookmark tree as an indented outline.

Examples:
  bmorg show -f bookmarks.html
  bmorg show -f bookmarks.html --folder Dev/Tools`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument()
		if err != nil {
			return err
		}
		folder, err := resolveFolder(doc.Root, showFolder)
		if err != nil {
			return err
		}

		for _, child := range folder.Children() {
			printTree(child, 0)
		}
		fmt.Printf("\n%d bookmarks total\n", len(folder.Bookmarks()))
		return nil
	},
}

func init() {
	showCmd.Flags().StringVar(&showFolder, "folder", "", "folder path to show (default: whole tree)")
	rootCmd.AddCommand(showCmd)
}
