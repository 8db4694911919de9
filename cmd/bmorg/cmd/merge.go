package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hnakamura/bmorg/internal/ops"
)

var mergeFolder string

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge same-named sibling folders",
	Long: `Merge sibling folders whose titles differ only in case. The first
folder of each name keeps its title and receives the children of the
others, in order.

Examples:
  bmorg merge -f bookmarks.html
  bmorg merge -f bookmarks.html --folder Imported`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument()
		if err != nil {
			return err
		}
		folder, err := resolveFolder(doc.Root, mergeFolder)
		if err != nil {
			return err
		}

		merged := ops.MergeDuplicateFolders(folder)
		fmt.Printf("Merged %d duplicate folders\n", merged)
		if merged == 0 {
			return nil
		}
		return doc.Save()
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeFolder, "folder", "", "folder whose children to merge (default: root)")
	rootCmd.AddCommand(mergeCmd)
}
