package cmd

import (
	"fmt"
	"strings"

	"github.com/hnakamura/bmorg/internal/model"
	"github.com/hnakamura/bmorg/internal/storage"
)

// loadDocument opens the bookmark file named by the --file flag.
func loadDocument() (*storage.Document, error) {
	if docPath == "" {
		return nil, fmt.Errorf("no bookmark file given, use --file")
	}
	return storage.LoadDocument(docPath)
}

// resolveFolder walks a "/"-separated path of folder titles from root.
// An empty path resolves to root itself.
func resolveFolder(root *model.Node, path string) (*model.Node, error) {
	cur := root
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		var next *model.Node
		for _, child := range cur.Children() {
			if child.IsFolder() && strings.EqualFold(child.Title, segment) {
				next = child
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("folder %q not found under %q", segment, cur.Title)
		}
		cur = next
	}
	return cur, nil
}

// pathOf renders a node's folder path from the root, for display.
func pathOf(n *model.Node) string {
	parts := []string{}
	for _, a := range n.Ancestors() {
		if a.Parent() == nil {
			continue // skip the root itself
		}
		parts = append(parts, a.Title)
	}
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

// printTree writes an indented outline of the subtree at n.
func printTree(n *model.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsFolder() {
		fmt.Printf("%s%s/ (%d)\n", indent, n.Title, len(n.Children()))
		for _, child := range n.Children() {
			printTree(child, depth+1)
		}
		return
	}
	fmt.Printf("%s%s  <%s>\n", indent, n.Title, n.URL)
}
