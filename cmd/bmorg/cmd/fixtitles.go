package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hnakamura/bmorg/internal/preview"
)

var (
	fixFolder      string
	fixConcurrency int
)

var fixTitlesCmd = &cobra.Command{
	Use:   "fix-titles",
	Short: "Replace bookmark titles with live page titles",
	Long: `Fetch every bookmark's page and replace its stored title with the
page's real title. Unreachable pages keep their title with an
"ERROR: " marker so they are easy to find later.

Examples:
  bmorg fix-titles -f bookmarks.html
  bmorg fix-titles -f bookmarks.html --folder Imported --concurrency 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument()
		if err != nil {
			return err
		}
		folder, err := resolveFolder(doc.Root, fixFolder)
		if err != nil {
			return err
		}

		bookmarks := folder.Bookmarks()
		if len(bookmarks) == 0 {
			fmt.Println("No bookmarks to fix")
			return nil
		}

		fetcher := preview.NewFetcher(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)
		results := fetcher.FixTitles(cmd.Context(), bookmarks, fixConcurrency,
			func(completed, total int) {
				fmt.Printf("\r%d/%d", completed, total)
			})
		fmt.Println()

		failed := 0
		for _, r := range results {
			if r.Err != nil || r.Title == "" {
				failed++
			}
		}
		fmt.Printf("Updated %d titles, %d failed\n", len(results)-failed, failed)

		return doc.Save()
	},
}

func init() {
	fixTitlesCmd.Flags().StringVar(&fixFolder, "folder", "", "folder whose bookmarks to fix (default: root)")
	fixTitlesCmd.Flags().IntVar(&fixConcurrency, "concurrency", 10, "number of parallel fetches")
	rootCmd.AddCommand(fixTitlesCmd)
}
