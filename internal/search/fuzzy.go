package search

import (
	"github.com/hnakamura/bmorg/internal/model"
	"github.com/sahilm/fuzzy"
)

// Match represents a fuzzy search hit.
type Match struct {
	Node           *model.Node
	MatchedIndexes []int
	Score          int
}

// nodeTitles implements fuzzy.Source for a node slice.
type nodeTitles []*model.Node

func (nt nodeTitles) String(i int) string {
	return nt[i].Title
}

func (nt nodeTitles) Len() int {
	return len(nt)
}

// FuzzyFind searches all bookmarks under root by title using fuzzy
// matching. Results are sorted by match score, best first.
func FuzzyFind(root *model.Node, query string) []Match {
	if query == "" {
		return nil
	}

	bookmarks := nodeTitles(root.Bookmarks())
	matches := fuzzy.FindFrom(query, bookmarks)

	results := make([]Match, len(matches))
	for i, m := range matches {
		results[i] = Match{
			Node:           bookmarks[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}
