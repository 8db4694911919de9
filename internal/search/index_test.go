package search

import (
	"reflect"
	"sort"
	"testing"

	"github.com/hnakamura/bmorg/internal/model"
)

func buildTree() (*model.Node, *model.Node, *model.Node, *model.Node) {
	root := model.NewFolder("Bookmarks")
	dev := model.NewFolder("Dev Tools")
	_ = root.Attach(dev)
	gh := model.NewBookmark("GitHub Home", "https://github.com/explore")
	hn := model.NewBookmark("Hacker News", "https://news.ycombinator.com")
	_ = dev.Attach(gh)
	_ = root.Attach(hn)
	return root, dev, gh, hn
}

func containsNode(nodes []*model.Node, n *model.Node) bool {
	for _, x := range nodes {
		if x == n {
			return true
		}
	}
	return false
}

func TestQuery_PrefixMatch(t *testing.T) {
	root, dev, gh, hn := buildTree()
	ix := NewIndex()
	ix.Rebuild(root)

	tests := []struct {
		name  string
		query string
		want  []*model.Node
	}{
		{"single word prefix", "git", []*model.Node{gh}},
		{"url token", "ycombinator", []*model.Node{hn}},
		{"multi word AND", "hacker news", []*model.Node{hn}},
		{"AND with no common node", "github news", nil},
		{"prefix across nodes", "ne", []*model.Node{hn}}, // "news" in title and url
		{"folder title", "dev", []*model.Node{dev}},
		{"empty query", "", nil},
		{"punctuation only", "!!!", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.Query(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d results, want %d", len(got), len(tt.want))
			}
			for _, n := range tt.want {
				if !containsNode(got, n) {
					t.Errorf("missing %q in results", n.Title)
				}
			}
		})
	}
}

func TestQuery_DocumentOrder(t *testing.T) {
	root := model.NewFolder("Bookmarks")
	first := model.NewBookmark("alpha common", "https://one.example")
	second := model.NewBookmark("beta common", "https://two.example")
	third := model.NewBookmark("gamma common", "https://three.example")
	for _, n := range []*model.Node{first, second, third} {
		_ = root.Attach(n)
	}
	ix := NewIndex()
	ix.Rebuild(root)

	got := ix.Query("common")
	want := []*model.Node{first, second, third}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("results not in document order")
	}
}

// snapshotTokens flattens the index contents for comparison.
func snapshotTokens(ix *Index) map[string][]string {
	out := make(map[string][]string)
	for tok, nodes := range ix.postings {
		var ids []string
		for n := range nodes {
			ids = append(ids, n.ID())
		}
		sort.Strings(ids)
		out[tok] = ids
	}
	return out
}

func TestUpdate_MatchesFullRebuild(t *testing.T) {
	root, _, gh, _ := buildTree()

	incremental := NewIndex()
	incremental.Rebuild(root)

	// Edit a node, then patch one index and rebuild the other.
	gh.Title = "GitLab Mirror"
	gh.URL = "https://gitlab.com/explore"
	incremental.Update(gh)

	full := NewIndex()
	full.Rebuild(root)

	if !reflect.DeepEqual(snapshotTokens(incremental), snapshotTokens(full)) {
		t.Error("incremental update and full rebuild disagree")
	}
}

func TestUpdate_PrunesEmptyTokens(t *testing.T) {
	root := model.NewFolder("Bookmarks")
	bm := model.NewBookmark("unique-word", "https://example.com")
	_ = root.Attach(bm)
	ix := NewIndex()
	ix.Rebuild(root)

	bm.Title = "renamed"
	ix.Update(bm)

	if _, ok := ix.postings["unique"]; ok {
		t.Error("stale token should be pruned when its posting set empties")
	}
	if got := ix.Query("renamed"); len(got) != 1 || got[0] != bm {
		t.Error("updated node should be found under its new title")
	}
}

func TestRemove(t *testing.T) {
	root, _, gh, _ := buildTree()
	ix := NewIndex()
	ix.Rebuild(root)

	ix.Remove(gh)

	if got := ix.Query("github"); len(got) != 0 {
		t.Errorf("removed node still matches, got %d results", len(got))
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Go/HTML: parsing, go-html!")
	want := []string{"go", "html", "parsing"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenize: got %v, want %v", got, want)
	}
}

func TestFuzzyFind(t *testing.T) {
	root, _, gh, _ := buildTree()

	results := FuzzyFind(root, "gthb")
	if len(results) == 0 || results[0].Node != gh {
		t.Fatal("expected GitHub bookmark as best fuzzy match")
	}
	if FuzzyFind(root, "") != nil {
		t.Error("empty query should return nil")
	}
}
