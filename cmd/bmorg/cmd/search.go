package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/hnakamura/bmorg/internal/model"
	"github.com/hnakamura/bmorg/internal/search"
)

var (
	searchFuzzy bool
	searchCopy  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search bookmarks and folders",
	Long: `Search the bookmark tree by title and URL.

By default every space-separated word must prefix-match somewhere in
the item; with --fuzzy, bookmark titles are matched fuzzily instead.

Examples:
  bmorg search -f bookmarks.html "go blog"
  bmorg search -f bookmarks.html --fuzzy gblg
  bmorg search -f bookmarks.html rust --copy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument()
		if err != nil {
			return err
		}

		var results []*model.Node
		if searchFuzzy {
			for _, m := range search.FuzzyFind(doc.Root, args[0]) {
				results = append(results, m.Node)
			}
		} else {
			ix := search.NewIndex()
			ix.Rebuild(doc.Root)
			results = ix.Query(args[0])
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, n := range results {
			if n.IsFolder() {
				p := pathOf(n)
				if p == "/" {
					p = ""
				}
				fmt.Printf("[folder]   %s/%s/\n", p, n.Title)
				continue
			}
			fmt.Printf("[bookmark] %s  <%s>  in %s\n", n.Title, n.URL, pathOf(n))
		}

		if searchCopy {
			for _, n := range results {
				if n.IsBookmark() {
					if err := clipboard.WriteAll(n.URL); err != nil {
						return fmt.Errorf("copy to clipboard: %w", err)
					}
					fmt.Printf("\nCopied %s\n", n.URL)
					break
				}
			}
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchFuzzy, "fuzzy", false, "fuzzy-match bookmark titles")
	searchCmd.Flags().BoolVar(&searchCopy, "copy", false, "copy the first bookmark result's URL")
	rootCmd.AddCommand(searchCmd)
}
