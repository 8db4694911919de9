package model_test

import (
	"errors"
	"testing"

	"github.com/hnakamura/bmorg/internal/model"
)

func TestAttach_SetsOwnership(t *testing.T) {
	root := model.NewFolder("Bookmarks")
	dev := model.NewFolder("Dev")
	bm := model.NewBookmark("GitHub", "https://github.com")

	if err := root.Attach(dev); err != nil {
		t.Fatalf("attach folder: %v", err)
	}
	if err := dev.Attach(bm); err != nil {
		t.Fatalf("attach bookmark: %v", err)
	}

	if bm.Parent() != dev {
		t.Error("bookmark parent should be dev folder")
	}
	if dev.IndexOf(bm) != 0 {
		t.Error("dev children should contain bookmark at index 0")
	}
	if len(root.Children()) != 1 {
		t.Errorf("expected 1 root child, got %d", len(root.Children()))
	}
}

func TestAttach_MoveBetweenFolders(t *testing.T) {
	root := model.NewFolder("Bookmarks")
	a := model.NewFolder("A")
	b := model.NewFolder("B")
	bm := model.NewBookmark("x", "https://example.com")
	_ = root.Attach(a)
	_ = root.Attach(b)
	_ = a.Attach(bm)

	if err := b.Attach(bm); err != nil {
		t.Fatalf("reattach: %v", err)
	}

	if a.IndexOf(bm) != -1 {
		t.Error("bookmark should have left folder A")
	}
	if b.IndexOf(bm) != 0 || bm.Parent() != b {
		t.Error("bookmark should be owned by folder B")
	}
}

func TestAttach_RejectsCycles(t *testing.T) {
	root := model.NewFolder("Bookmarks")
	a := model.NewFolder("A")
	b := model.NewFolder("B")
	_ = root.Attach(a)
	_ = a.Attach(b)

	tests := []struct {
		name   string
		parent *model.Node
		child  *model.Node
	}{
		{"folder into itself", a, a},
		{"folder into its child", b, a},
		{"root into grandchild", b, root},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parent.Attach(tt.child)
			if !errors.Is(err, model.ErrInvalidOperation) {
				t.Fatalf("expected ErrInvalidOperation, got %v", err)
			}
			// Structure must be unchanged.
			if a.Parent() != root || b.Parent() != a || root.Parent() != nil {
				t.Error("tree structure changed after rejected attach")
			}
			if root.IndexOf(a) != 0 || a.IndexOf(b) != 0 {
				t.Error("children lists changed after rejected attach")
			}
		})
	}
}

func TestAttach_RejectsBookmarkParent(t *testing.T) {
	bm := model.NewBookmark("x", "https://example.com")
	other := model.NewBookmark("y", "https://example.org")

	if err := bm.Attach(other); !errors.Is(err, model.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	if other.Parent() != nil {
		t.Error("rejected attach must not set parent")
	}
}

func TestInsertChild_Order(t *testing.T) {
	root := model.NewFolder("Bookmarks")
	first := model.NewBookmark("first", "https://a.example")
	second := model.NewBookmark("second", "https://b.example")
	third := model.NewBookmark("third", "https://c.example")
	_ = root.Attach(first)
	_ = root.Attach(third)

	if err := root.InsertChild(1, second); err != nil {
		t.Fatalf("insert: %v", err)
	}

	want := []*model.Node{first, second, third}
	for i, n := range root.Children() {
		if n != want[i] {
			t.Errorf("child %d: got %q, want %q", i, n.Title, want[i].Title)
		}
	}
}

func TestDetach_NoopWhenDetached(t *testing.T) {
	bm := model.NewBookmark("x", "https://example.com")
	bm.Detach() // must not panic
	if bm.Parent() != nil {
		t.Error("detached node should have nil parent")
	}
}

func TestOwnershipInvariant_AfterMutationSequence(t *testing.T) {
	root := model.NewFolder("Bookmarks")
	a := model.NewFolder("A")
	b := model.NewFolder("B")
	_ = root.Attach(a)
	_ = root.Attach(b)
	bms := make([]*model.Node, 0, 6)
	for i := 0; i < 6; i++ {
		bm := model.NewBookmark("bm", "https://example.com/")
		bms = append(bms, bm)
		_ = a.Attach(bm)
	}

	// Shuffle things around.
	_ = b.Attach(bms[0])
	_ = b.InsertChild(0, bms[1])
	bms[2].Detach()
	_ = root.Attach(bms[3])
	_ = a.InsertChild(99, bms[4]) // clamped

	// Every attached node appears exactly once under its parent, nowhere else.
	seen := make(map[*model.Node]int)
	root.Walk(func(n *model.Node) {
		for _, ch := range n.Children() {
			seen[ch]++
			if ch.Parent() != n {
				t.Errorf("node %q parent back-reference disagrees with ownership", ch.Title)
			}
		}
	})
	for n, count := range seen {
		if count != 1 {
			t.Errorf("node %q appears in %d children lists", n.Title, count)
		}
	}
	if seen[bms[2]] != 0 {
		t.Error("detached node still owned")
	}
}

func TestAncestors(t *testing.T) {
	root := model.NewFolder("Bookmarks")
	a := model.NewFolder("A")
	b := model.NewFolder("B")
	bm := model.NewBookmark("x", "https://example.com")
	_ = root.Attach(a)
	_ = a.Attach(b)
	_ = b.Attach(bm)

	path := bm.Ancestors()
	want := []*model.Node{root, a, b}
	if len(path) != len(want) {
		t.Fatalf("expected %d ancestors, got %d", len(want), len(path))
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("ancestor %d: got %q, want %q", i, path[i].Title, want[i].Title)
		}
	}
	if bm.Root() != root {
		t.Error("Root should return tree root")
	}
}

func TestBookmarks_DocumentOrder(t *testing.T) {
	root := model.NewFolder("Bookmarks")
	a := model.NewFolder("A")
	_ = root.Attach(a)
	b1 := model.NewBookmark("one", "https://one.example")
	b2 := model.NewBookmark("two", "https://two.example")
	b3 := model.NewBookmark("three", "https://three.example")
	_ = a.Attach(b1)
	_ = a.Attach(b2)
	_ = root.Attach(b3)

	got := root.Bookmarks()
	want := []*model.Node{b1, b2, b3}
	if len(got) != 3 {
		t.Fatalf("expected 3 bookmarks, got %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bookmark %d: got %q, want %q", i, got[i].Title, want[i].Title)
		}
	}
}

func TestNodeIdentity(t *testing.T) {
	a := model.NewBookmark("same", "https://example.com")
	b := model.NewBookmark("same", "https://example.com")
	if a == b {
		t.Fatal("distinct nodes must be distinct handles")
	}
	if a.ID() == b.ID() {
		t.Error("distinct nodes must have distinct IDs")
	}
}
