// Package search provides lookup over a bookmark tree: an incremental
// inverted word index with prefix AND queries, and fuzzy title matching.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hnakamura/bmorg/internal/model"
)

// Index is an inverted word index over each node's title and URL. It is a
// derived projection of the tree: rebuild it after bulk changes, or feed
// edited nodes to Update to patch it in place.
type Index struct {
	postings map[string]map[*model.Node]struct{}
	entries  map[*model.Node]indexEntry
	nextPos  int
}

type indexEntry struct {
	tokens []string
	pos    int // document order, used to keep query results stable
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		postings: make(map[string]map[*model.Node]struct{}),
		entries:  make(map[*model.Node]indexEntry),
	}
}

// Rebuild drops the index and re-tokenizes every node under root.
func (ix *Index) Rebuild(root *model.Node) {
	ix.postings = make(map[string]map[*model.Node]struct{})
	ix.entries = make(map[*model.Node]indexEntry)
	ix.nextPos = 0
	root.Walk(func(n *model.Node) {
		ix.insert(n)
	})
}

// Update patches the index for the given changed nodes: stale token links
// are removed first (pruning tokens whose posting set empties), then the
// nodes are re-tokenized and re-inserted.
func (ix *Index) Update(nodes ...*model.Node) {
	for _, n := range nodes {
		ix.remove(n)
	}
	for _, n := range nodes {
		ix.insert(n)
	}
}

// Remove deletes nodes from the index entirely, e.g. after deletion or
// dedupe.
func (ix *Index) Remove(nodes ...*model.Node) {
	for _, n := range nodes {
		ix.remove(n)
	}
}

// Query returns the nodes matching every word of q, where a query word
// matches any indexed token it prefixes. Results come back in document
// order. An empty query matches nothing.
func (ix *Index) Query(q string) []*model.Node {
	words := tokenize(q)
	if len(words) == 0 {
		return nil
	}

	var result map[*model.Node]struct{}
	for i, word := range words {
		found := make(map[*model.Node]struct{})
		for token, nodes := range ix.postings {
			if !strings.HasPrefix(token, word) {
				continue
			}
			for n := range nodes {
				found[n] = struct{}{}
			}
		}
		if i == 0 {
			result = found
			continue
		}
		for n := range result {
			if _, ok := found[n]; !ok {
				delete(result, n)
			}
		}
	}

	out := make([]*model.Node, 0, len(result))
	for n := range result {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return ix.entries[out[i]].pos < ix.entries[out[j]].pos
	})
	return out
}

func (ix *Index) insert(n *model.Node) {
	tokens := tokenize(n.Title + " " + n.URL)
	for _, tok := range tokens {
		set, ok := ix.postings[tok]
		if !ok {
			set = make(map[*model.Node]struct{})
			ix.postings[tok] = set
		}
		set[n] = struct{}{}
	}
	ix.entries[n] = indexEntry{tokens: tokens, pos: ix.nextPos}
	ix.nextPos++
}

func (ix *Index) remove(n *model.Node) {
	entry, ok := ix.entries[n]
	if !ok {
		return
	}
	for _, tok := range entry.tokens {
		if set, ok := ix.postings[tok]; ok {
			delete(set, n)
			if len(set) == 0 {
				delete(ix.postings, tok)
			}
		}
	}
	delete(ix.entries, n)
}

// tokenize lowercases s and splits it on runs of non-alphanumeric
// characters, discarding empty tokens and duplicates.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
