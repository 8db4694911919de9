package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hnakamura/bmorg/internal/classify"
)

var (
	classifyBase  string
	classifyApply bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "File bookmarks into folders by rules",
	Long: `Match every bookmark against the document's classification rules
(from its .bookmark_rules.json sidecar, or the built-in defaults) and
file matches into the named folders. Rules are tried in order; the
first match wins. Bookmarks already inside their target folder are
left alone.

Without --apply the plan is only printed.

Examples:
  bmorg classify -f bookmarks.html
  bmorg classify -f bookmarks.html --base Sorted --apply`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument()
		if err != nil {
			return err
		}
		base, err := resolveFolder(doc.Root, classifyBase)
		if err != nil {
			return err
		}

		plan := classify.BuildRulePlan(doc.Root.Bookmarks(), doc.Rules)
		if plan.Empty() {
			fmt.Println("Nothing to classify")
			return nil
		}

		for _, folder := range plan.Folders() {
			nodes := plan.Bookmarks(folder)
			fmt.Printf("%s/ (%d)\n", folder, len(nodes))
			for _, n := range nodes {
				fmt.Printf("  %s  <%s>\n", n.Title, n.URL)
			}
		}

		if !classifyApply {
			fmt.Printf("\n%d bookmarks would move; rerun with --apply to do it\n", plan.Total())
			return nil
		}

		moved := classify.Execute(plan, base)
		fmt.Printf("\nMoved %d bookmarks\n", moved)
		return doc.Save()
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyBase, "base", "", "folder under which target folders live (default: root)")
	classifyCmd.Flags().BoolVar(&classifyApply, "apply", false, "apply the plan instead of just printing it")
	rootCmd.AddCommand(classifyCmd)
}
