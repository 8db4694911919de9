package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hnakamura/bmorg/internal/preview"
)

var previewNoCache bool

var previewCmd = &cobra.Command{
	Use:   "preview <url>",
	Short: "Fetch a page's title, description, and favicon",
	Long: `Fetch the page at the given URL and print its title, description,
and whether a favicon could be found. Results are cached in
~/.config/bmorg/previews.db so repeated lookups stay offline.

Examples:
  bmorg preview https://go.dev
  bmorg preview --no-cache https://go.dev`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]

		storePath, err := preview.DefaultStorePath()
		if err != nil {
			return err
		}
		store, err := preview.NewStore(storePath)
		if err != nil {
			return err
		}
		defer store.Close()

		if !previewNoCache {
			if entry, ok, err := store.Get(url); err == nil && ok {
				printEntry(entry, true)
				return nil
			}
		}

		fetcher := preview.NewFetcher(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)
		meta, err := fetcher.Fetch(cmd.Context(), url)
		if err != nil {
			return err
		}

		entry := preview.Entry{
			URL:         url,
			Title:       meta.Title,
			Description: meta.Description,
			FetchedAt:   time.Now(),
		}
		if icon, err := fetcher.FetchFavicon(cmd.Context(), url); err == nil {
			entry.Icon = icon
		}

		if err := store.Put(entry); err != nil {
			return fmt.Errorf("cache preview: %w", err)
		}
		printEntry(entry, false)
		return nil
	},
}

func printEntry(e preview.Entry, cached bool) {
	fmt.Printf("Title:       %s\n", e.Title)
	fmt.Printf("Description: %s\n", e.Description)
	favicon := "no"
	if e.Icon != "" {
		favicon = fmt.Sprintf("yes (%d bytes)", len(e.Icon))
	}
	fmt.Printf("Favicon:     %s\n", favicon)
	if cached {
		fmt.Printf("Cached:      %s\n", e.FetchedAt.Format(time.RFC3339))
	}
}

func init() {
	previewCmd.Flags().BoolVar(&previewNoCache, "no-cache", false, "bypass and refresh the preview cache")
	rootCmd.AddCommand(previewCmd)
}
