package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hnakamura/bmorg/internal/model"
	"github.com/hnakamura/bmorg/internal/ops"
)

var (
	dedupeFolder    string
	dedupeRecursive bool
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove duplicate bookmarks within a folder",
	Long: `Remove bookmarks whose URL duplicates an earlier sibling in the
same folder. URLs are compared after trimming whitespace and one
trailing slash; the first occurrence is kept.

Examples:
  bmorg dedupe -f bookmarks.html
  bmorg dedupe -f bookmarks.html --folder News --recursive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument()
		if err != nil {
			return err
		}
		folder, err := resolveFolder(doc.Root, dedupeFolder)
		if err != nil {
			return err
		}

		removed := 0
		if dedupeRecursive {
			folder.Walk(func(n *model.Node) {
				if n.IsFolder() {
					removed += ops.Dedupe(n)
				}
			})
		} else {
			removed = ops.Dedupe(folder)
		}

		fmt.Printf("Removed %d duplicate bookmarks\n", removed)
		if removed == 0 {
			return nil
		}
		return doc.Save()
	},
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupeFolder, "folder", "", "folder path to deduplicate (default: root)")
	dedupeCmd.Flags().BoolVar(&dedupeRecursive, "recursive", false, "also deduplicate every folder below")
	rootCmd.AddCommand(dedupeCmd)
}
