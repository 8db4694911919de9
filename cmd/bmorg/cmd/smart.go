package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hnakamura/bmorg/internal/ai"
	"github.com/hnakamura/bmorg/internal/classify"
	"github.com/hnakamura/bmorg/internal/model"
)

var (
	smartFolder       string
	smartInstructions string
	smartLimit        int
	smartApply        bool
)

var smartCmd = &cobra.Command{
	Use:   "smart",
	Short: "Group bookmarks into folders with AI",
	Long: `Send a folder's bookmarks to the classifier and group them into
proposed folders. Targets are created under the closest common
ancestor of the classified bookmarks, reusing existing folders
case-insensitively.

Requires ANTHROPIC_API_KEY. Without --apply the proposal is only
printed.

Examples:
  bmorg smart -f bookmarks.html
  bmorg smart -f bookmarks.html --folder Unsorted --apply
  bmorg smart -f bookmarks.html --instructions "keep Japanese titles together"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument()
		if err != nil {
			return err
		}
		folder, err := resolveFolder(doc.Root, smartFolder)
		if err != nil {
			return err
		}

		limit := smartLimit
		if limit <= 0 {
			limit = cfg.SmartClassifyLimit
		}
		bookmarks := folder.Bookmarks()
		if len(bookmarks) > limit {
			bookmarks = bookmarks[:limit]
		}
		if len(bookmarks) == 0 {
			fmt.Println("Nothing to classify")
			return nil
		}

		client, err := ai.NewClient(ai.NewClientParams{ProxyURL: cfg.ProxyURL})
		if err != nil {
			return err
		}

		var cycle classify.Cycle
		descs, err := cycle.Submit(bookmarks)
		if err != nil {
			return err
		}

		result, err := client.Classify(ai.Request{
			Bookmarks:     descs,
			PriorityTerms: cfg.PriorityTerms,
			Instructions:  smartInstructions,
			MaxItems:      limit,
		})
		var groups []classify.Group
		if result != nil {
			groups = result.Groups
		}
		plan, err := cycle.Complete(groups, err)
		if err != nil {
			return err
		}
		if plan == nil || plan.Empty() {
			fmt.Println("The classifier proposed no groups")
			return nil
		}

		var planned []*model.Node
		for _, f := range plan.Folders() {
			nodes := plan.Bookmarks(f)
			planned = append(planned, nodes...)
			fmt.Printf("%s/ (%d)\n", f, len(nodes))
			for _, n := range nodes {
				fmt.Printf("  %s  <%s>\n", n.Title, n.URL)
			}
		}

		if !smartApply {
			fmt.Printf("\n%d bookmarks would move; rerun with --apply to do it\n", plan.Total())
			return nil
		}

		base := classify.CommonAncestor(doc.Root, planned)
		moved := classify.Execute(plan, base)
		fmt.Printf("\nMoved %d bookmarks under %q\n", moved, base.Title)
		return doc.Save()
	},
}

func init() {
	smartCmd.Flags().StringVar(&smartFolder, "folder", "", "folder whose bookmarks to classify (default: root)")
	smartCmd.Flags().StringVar(&smartInstructions, "instructions", "", "extra instructions for the classifier")
	smartCmd.Flags().IntVar(&smartLimit, "limit", 0, "max bookmarks per call (default: from config)")
	smartCmd.Flags().BoolVar(&smartApply, "apply", false, "apply the proposal instead of just printing it")
	rootCmd.AddCommand(smartCmd)
}
