// Package ops implements the structural edits users apply to a bookmark
// tree: sorting, deduplication, folder merging, and batch moves. Every
// operation validates against the tree invariants before mutating, so a
// failed call leaves the tree exactly as it was.
package ops

import (
	"net/url"
	"strings"

	"github.com/hnakamura/bmorg/internal/model"
)

// SortMode selects the secondary sort key for Sort.
type SortMode int

const (
	// SortByTitle orders by case-insensitive title.
	SortByTitle SortMode = iota
	// SortByDomain orders bookmarks by URL domain, then title.
	SortByDomain
)

// Sort stably reorders the folder's direct children: folders first, then
// bookmarks, each group ordered by the mode's key. Subfolders are not
// touched.
func Sort(folder *model.Node, mode SortMode) {
	folder.SortChildren(func(a, b *model.Node) bool {
		ga, gb := sortGroup(a), sortGroup(b)
		if ga != gb {
			return ga < gb
		}
		if mode == SortByDomain && a.IsBookmark() {
			da, db := domainOf(a.URL), domainOf(b.URL)
			if da != db {
				return da < db
			}
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})
}

func sortGroup(n *model.Node) int {
	if n.IsFolder() {
		return 0
	}
	return 1
}

// domainOf extracts the lowercase host from a URL, or "" if unparseable.
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// Dedupe removes direct-child bookmarks whose normalized URL duplicates an
// earlier sibling's. URLs are normalized by trimming whitespace and one
// trailing slash; bookmarks with empty URLs are never deduplicated. Returns
// the number of bookmarks removed.
func Dedupe(folder *model.Node) int {
	seen := make(map[string]bool)
	removed := 0
	for _, ch := range snapshot(folder) {
		if !ch.IsBookmark() {
			continue
		}
		key := strings.TrimSuffix(strings.TrimSpace(ch.URL), "/")
		if key == "" {
			continue
		}
		if seen[key] {
			ch.Detach()
			removed++
			continue
		}
		seen[key] = true
	}
	return removed
}

// MergeDuplicateFolders merges direct-child folders that share a title
// case-insensitively: the first folder of each group becomes the primary,
// later duplicates have their children appended to it in encounter order
// and are then deleted. Subfolders are not merged recursively. Returns the
// number of folders merged away.
func MergeDuplicateFolders(folder *model.Node) int {
	primaries := make(map[string]*model.Node)
	merged := 0
	for _, ch := range snapshot(folder) {
		if !ch.IsFolder() {
			continue
		}
		key := strings.ToLower(ch.Title)
		primary, ok := primaries[key]
		if !ok {
			primaries[key] = ch
			continue
		}
		for _, sub := range snapshot(ch) {
			_ = primary.Attach(sub)
		}
		ch.Detach()
		merged++
	}
	return merged
}

// MoveTo moves nodes into dest, appending in the given order. The whole
// batch is validated first: if dest is not a folder, or any node is dest or
// an ancestor of dest, MoveTo fails with ErrInvalidOperation and nothing
// moves.
func MoveTo(dest *model.Node, nodes []*model.Node) error {
	if !dest.IsFolder() {
		return model.ErrInvalidOperation
	}
	for _, n := range nodes {
		if n == dest || n.IsAncestorOf(dest) {
			return model.ErrInvalidOperation
		}
	}
	for _, n := range nodes {
		_ = dest.Attach(n)
	}
	return nil
}

// MoveUp moves each node one level up, into its parent's parent. The batch
// is validated first: if any node has no parent or its parent has no
// parent, MoveUp fails with ErrInvalidOperation and nothing moves.
func MoveUp(nodes []*model.Node) error {
	for _, n := range nodes {
		if n.Parent() == nil || n.Parent().Parent() == nil {
			return model.ErrInvalidOperation
		}
	}
	for _, n := range nodes {
		_ = n.Parent().Parent().Attach(n)
	}
	return nil
}

// DropPosition says where dragged nodes land relative to the drop target.
type DropPosition int

const (
	DropBefore DropPosition = iota
	DropAfter
	DropInto
)

// DragReorder applies a drag-and-drop of the dragged nodes onto target in
// one atomic batch, preserving the dragged set's relative order. DropInto
// requires target to be a folder; DropBefore/DropAfter insert as siblings
// of target. Fails with ErrInvalidOperation, without mutating, if any
// dragged node is the target or an ancestor of it, or the target placement
// is impossible.
func DragReorder(dragged []*model.Node, target *model.Node, pos DropPosition) error {
	for _, dn := range dragged {
		if dn == target || dn.IsAncestorOf(target) {
			return model.ErrInvalidOperation
		}
	}
	if pos == DropInto {
		if !target.IsFolder() {
			return model.ErrInvalidOperation
		}
		for _, dn := range dragged {
			_ = target.Attach(dn)
		}
		return nil
	}
	parent := target.Parent()
	if parent == nil {
		return model.ErrInvalidOperation
	}
	// Detach everything first so the target index is stable, then insert in
	// reverse at that one index so the dragged set keeps its order.
	for _, dn := range dragged {
		dn.Detach()
	}
	idx := parent.IndexOf(target)
	if pos == DropAfter {
		idx++
	}
	for i := len(dragged) - 1; i >= 0; i-- {
		_ = parent.InsertChild(idx, dragged[i])
	}
	return nil
}

// snapshot copies a children list so callers can mutate while iterating.
func snapshot(n *model.Node) []*model.Node {
	return append([]*model.Node(nil), n.Children()...)
}
