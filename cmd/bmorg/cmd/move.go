package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hnakamura/bmorg/internal/model"
	"github.com/hnakamura/bmorg/internal/ops"
)

var (
	moveTo string
	moveUp bool
)

var moveCmd = &cobra.Command{
	Use:   "move <url-or-title>...",
	Short: "Move bookmarks to another folder",
	Long: `Move bookmarks, matched by exact URL or title, into the folder
named by --to. With --up each bookmark moves to its grandparent
folder instead.

Examples:
  bmorg move -f bookmarks.html https://go.dev --to Dev
  bmorg move -f bookmarks.html "Go Blog" "Go Playground" --up`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if moveUp == (moveTo != "") {
			return fmt.Errorf("exactly one of --to or --up is required")
		}

		doc, err := loadDocument()
		if err != nil {
			return err
		}

		var nodes []*model.Node
		for _, arg := range args {
			n := findBookmark(doc.Root, arg)
			if n == nil {
				return fmt.Errorf("no bookmark matches %q", arg)
			}
			nodes = append(nodes, n)
		}

		if moveUp {
			if err := ops.MoveUp(nodes); err != nil {
				return err
			}
		} else {
			dest, err := resolveFolder(doc.Root, moveTo)
			if err != nil {
				return err
			}
			if err := ops.MoveTo(dest, nodes); err != nil {
				return err
			}
		}

		fmt.Printf("Moved %d bookmarks\n", len(nodes))
		return doc.Save()
	},
}

// findBookmark returns the first bookmark whose URL or title equals key.
func findBookmark(root *model.Node, key string) *model.Node {
	var found *model.Node
	root.Walk(func(n *model.Node) {
		if found != nil || !n.IsBookmark() {
			return
		}
		if n.URL == key || strings.EqualFold(n.Title, key) {
			found = n
		}
	})
	return found
}

func init() {
	moveCmd.Flags().StringVar(&moveTo, "to", "", "destination folder path")
	moveCmd.Flags().BoolVar(&moveUp, "up", false, "move each bookmark to its grandparent folder")
	rootCmd.AddCommand(moveCmd)
}
