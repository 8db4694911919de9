package classify

import (
	"strings"

	"github.com/hnakamura/bmorg/internal/model"
)

// Plan maps target folder names to the bookmarks that should move there.
// Building a plan never mutates the tree; only Execute does. Folder order
// is insertion order.
type Plan struct {
	order  []string
	groups map[string][]*model.Node
}

// NewPlan creates an empty plan.
func NewPlan() *Plan {
	return &Plan{groups: make(map[string][]*model.Node)}
}

// Add appends bookmarks to a target folder's move list.
func (p *Plan) Add(folder string, nodes ...*model.Node) {
	if len(nodes) == 0 {
		return
	}
	if _, ok := p.groups[folder]; !ok {
		p.order = append(p.order, folder)
	}
	p.groups[folder] = append(p.groups[folder], nodes...)
}

// Folders returns the target folder names in insertion order.
func (p *Plan) Folders() []string { return p.order }

// Bookmarks returns the ordered move list for a target folder.
func (p *Plan) Bookmarks(folder string) []*model.Node { return p.groups[folder] }

// Total returns the number of bookmarks across all target folders.
func (p *Plan) Total() int {
	n := 0
	for _, nodes := range p.groups {
		n += len(nodes)
	}
	return n
}

// Empty reports whether the plan has no moves.
func (p *Plan) Empty() bool { return len(p.order) == 0 }

// BuildRulePlan evaluates rules in order against each bookmark; the first
// matching rule claims it. A match whose folder is the bookmark's current
// parent is passed over and later rules still get a chance. Non-bookmark
// nodes are ignored.
func BuildRulePlan(bookmarks []*model.Node, rules Rules) *Plan {
	plan := NewPlan()
	for _, bm := range bookmarks {
		if !bm.IsBookmark() {
			continue
		}
		for _, nr := range rules {
			if !nr.Rule.Match(bm.Title, bm.URL) {
				continue
			}
			if parent := bm.Parent(); parent != nil && parent.Title == nr.Folder {
				continue
			}
			plan.Add(nr.Folder, bm)
			break
		}
	}
	return plan
}

// CommonAncestor returns the deepest folder that is an ancestor of every
// node in the set, or root when the set is empty or shares no ancestor
// below root.
func CommonAncestor(root *model.Node, nodes []*model.Node) *model.Node {
	if len(nodes) == 0 {
		return root
	}
	paths := make([][]*model.Node, len(nodes))
	shortest := -1
	for i, n := range nodes {
		paths[i] = n.Ancestors()
		if shortest == -1 || len(paths[i]) < len(paths[shortest]) {
			shortest = i
		}
	}
	common := root
	for depth, candidate := range paths[shortest] {
		agreed := true
		for _, p := range paths {
			if p[depth] != candidate {
				agreed = false
				break
			}
		}
		if !agreed {
			break
		}
		common = candidate
	}
	return common
}

// Descriptor is the lightweight (title, url) representation a bookmark
// takes across the boundary to the external classifier, which has no
// access to node handles.
type Descriptor struct {
	Title string
	URL   string
}

// DescriptorOf returns a node's boundary representation.
func DescriptorOf(n *model.Node) Descriptor {
	return Descriptor{Title: n.Title, URL: n.URL}
}

// Group is one folder's worth of an external classification result.
type Group struct {
	Folder string
	Items  []Descriptor
}

// Reconcile maps externally-returned descriptor groups back onto the node
// handles that were submitted for classification. Descriptors that resolve
// to no submitted node are dropped, as are folders whose resolved list
// ends up empty. Duplicate (title, url) pairs among the submitted nodes
// resolve to the last one submitted.
func Reconcile(groups []Group, submitted []*model.Node) *Plan {
	lookup := make(map[Descriptor]*model.Node, len(submitted))
	for _, n := range submitted {
		lookup[DescriptorOf(n)] = n
	}

	plan := NewPlan()
	for _, g := range groups {
		var resolved []*model.Node
		for _, d := range g.Items {
			if n, ok := lookup[d]; ok {
				resolved = append(resolved, n)
			}
		}
		if len(resolved) > 0 {
			plan.Add(g.Folder, resolved...)
		}
	}
	return plan
}

// Execute moves every planned bookmark into its target folder under base.
// Target folders are resolved among base's direct children by
// case-insensitive title; missing ones are created with the plan's exact
// casing. Returns the number of bookmarks moved.
func Execute(plan *Plan, base *model.Node) int {
	if plan.Empty() {
		return 0
	}
	existing := make(map[string]*model.Node)
	for _, ch := range base.Children() {
		if ch.IsFolder() {
			existing[strings.ToLower(ch.Title)] = ch
		}
	}

	moved := 0
	for _, folderName := range plan.Folders() {
		target := existing[strings.ToLower(folderName)]
		if target == nil {
			target = model.NewFolder(folderName)
			_ = base.Attach(target)
			existing[strings.ToLower(folderName)] = target
		}
		for _, bm := range plan.Bookmarks(folderName) {
			if err := target.Attach(bm); err == nil {
				moved++
			}
		}
	}
	return moved
}
