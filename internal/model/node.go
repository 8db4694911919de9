// Package model defines the bookmark tree: an ownership-tracked hierarchy
// of folder and bookmark nodes. Every node except the root has exactly one
// parent, and the parent back-reference always agrees with the parent's
// children list. All structural mutation goes through Attach, InsertChild
// and Detach, which reject operations that would break those invariants
// before touching the tree.
package model

import (
	"errors"
	"sort"
)

// ErrInvalidOperation is returned when a mutation would violate a structural
// invariant: attaching a folder under its own descendant, attaching children
// to a bookmark, or moving a node that has nowhere to go.
var ErrInvalidOperation = errors.New("invalid tree operation")

// Kind discriminates folder nodes from bookmark nodes.
type Kind int

const (
	KindFolder Kind = iota
	KindBookmark
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "bookmark"
}

// Node is a single entry in the bookmark tree. Title, URL and the timestamp
// strings are plain data and may be edited in place; AddedAt and ModifiedAt
// are carried verbatim from the source document and never reinterpreted.
// Identity is handle identity: two nodes with equal fields are still
// distinct entries.
type Node struct {
	Title      string
	URL        string
	AddedAt    string
	ModifiedAt string
	Icon       string // favicon data URI, if fetched

	id       string
	kind     Kind
	parent   *Node
	children []*Node
}

// NewNodeParams holds parameters for creating a Node.
type NewNodeParams struct {
	Kind       Kind
	Title      string
	URL        string
	AddedAt    string
	ModifiedAt string
}

// NewNode creates a detached Node with a generated UUID.
func NewNode(params NewNodeParams) *Node {
	return &Node{
		id:         generateUUID(),
		kind:       params.Kind,
		Title:      params.Title,
		URL:        params.URL,
		AddedAt:    params.AddedAt,
		ModifiedAt: params.ModifiedAt,
	}
}

// NewFolder creates a detached folder node.
func NewFolder(title string) *Node {
	return NewNode(NewNodeParams{Kind: KindFolder, Title: title})
}

// NewBookmark creates a detached bookmark node.
func NewBookmark(title, url string) *Node {
	return NewNode(NewNodeParams{Kind: KindBookmark, Title: title, URL: url})
}

// ID returns the node's stable identifier. Presentation layers use it to
// map widget items back to nodes across re-renders.
func (n *Node) ID() string { return n.id }

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// IsFolder reports whether the node is a folder.
func (n *Node) IsFolder() bool { return n.kind == KindFolder }

// IsBookmark reports whether the node is a bookmark.
func (n *Node) IsBookmark() bool { return n.kind == KindBookmark }

// Parent returns the owning folder, or nil for a root or detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's ordered children. The returned slice is the
// live backing array; callers must not modify it directly.
func (n *Node) Children() []*Node { return n.children }

// Attach appends child to the folder's children, detaching it from any
// previous parent first. It fails with ErrInvalidOperation, leaving both
// trees untouched, if the receiver is not a folder, child is the receiver
// itself, or child is an ancestor of the receiver.
func (n *Node) Attach(child *Node) error {
	return n.InsertChild(len(n.children), child)
}

// InsertChild inserts child at index i of the folder's children, applying
// the same validation as Attach. The index refers to the children list after
// child has been detached from its previous position; out-of-range indexes
// are clamped.
func (n *Node) InsertChild(i int, child *Node) error {
	if !n.IsFolder() || child == n || child.IsAncestorOf(n) {
		return ErrInvalidOperation
	}
	child.Detach()
	if i < 0 {
		i = 0
	}
	if i > len(n.children) {
		i = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	child.parent = n
	return nil
}

// Detach removes the node from its parent's children and clears the parent
// reference. Detaching an already-detached node is a no-op.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, ch := range p.children {
		if ch == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// IndexOf returns the position of child in the node's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, ch := range n.children {
		if ch == child {
			return i
		}
	}
	return -1
}

// Ancestors returns the node's ancestor chain ordered root-first, ending at
// the immediate parent. A root or detached node has no ancestors.
func (n *Node) Ancestors() []*Node {
	var path []*Node
	for p := n.parent; p != nil; p = p.parent {
		path = append(path, p)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Root returns the topmost ancestor, or the node itself if detached.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Walk visits the node and all its descendants depth-first in child order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, ch := range n.children {
		ch.Walk(fn)
	}
}

// Bookmarks returns all descendant bookmark nodes (including the node
// itself if it is a bookmark) in document order.
func (n *Node) Bookmarks() []*Node {
	var out []*Node
	n.Walk(func(node *Node) {
		if node.IsBookmark() {
			out = append(out, node)
		}
	})
	return out
}

// SortChildren stably reorders the node's direct children by less.
func (n *Node) SortChildren(less func(a, b *Node) bool) {
	sort.SliceStable(n.children, func(i, j int) bool {
		return less(n.children[i], n.children[j])
	})
}
