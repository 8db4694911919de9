package ai

import (
	"strings"
	"testing"

	"github.com/hnakamura/bmorg/internal/classify"
)

func descriptors(urls ...string) []classify.Descriptor {
	out := make([]classify.Descriptor, len(urls))
	for i, u := range urls {
		out[i] = classify.Descriptor{Title: "t" + u, URL: u}
	}
	return out
}

func TestDecodeGroups(t *testing.T) {
	submitted := descriptors("https://a.example", "https://b.example", "https://c.example")

	body := `{"groups":[
		{"folder":"Dev/Tools","indices":[0,2,99,-1]},
		{"folder":"  ","indices":[1]},
		{"folder":"Empty","indices":[42]}
	]}`

	groups := decodeGroups([]byte(body), submitted)

	// "Dev/Tools" sanitized, out-of-range indices ignored; the singleton
	// "Unsorted" group is folded into the largest group; "Empty" resolves
	// to nothing and disappears.
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Folder != "Dev_Tools" {
		t.Errorf("folder name not sanitized: %q", groups[0].Folder)
	}
	if len(groups[0].Items) != 3 {
		t.Errorf("expected 3 items after consolidation, got %d", len(groups[0].Items))
	}
}

func TestDecodeGroups_GarbageYieldsNothing(t *testing.T) {
	if got := decodeGroups([]byte("not json at all"), descriptors("https://a.example")); got != nil {
		t.Errorf("unparseable response should yield no groups, got %v", got)
	}
}

func TestConsolidate_OnlySingletons(t *testing.T) {
	groups := []classify.Group{
		{Folder: "A", Items: descriptors("https://a.example")},
		{Folder: "B", Items: descriptors("https://b.example")},
	}

	got := consolidate(groups)
	if len(got) != 1 || got[0].Folder != "Unsorted" {
		t.Fatalf("singletons alone should collapse into Unsorted, got %v", got)
	}
	if len(got[0].Items) != 2 {
		t.Errorf("expected 2 items in Unsorted, got %d", len(got[0].Items))
	}
}

func TestConsolidate_KeepsLargeGroups(t *testing.T) {
	groups := []classify.Group{
		{Folder: "Big", Items: descriptors("https://a.example", "https://b.example", "https://c.example")},
		{Folder: "Mid", Items: descriptors("https://d.example", "https://e.example")},
		{Folder: "Tiny", Items: descriptors("https://f.example")},
	}

	got := consolidate(groups)
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[0].Folder != "Big" || len(got[0].Items) != 4 {
		t.Errorf("singleton should join the largest group, got %q with %d items",
			got[0].Folder, len(got[0].Items))
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt([]string{"Dev", "News"}, "keep Japanese titles together", `{"bookmarks":[]}`)

	if !strings.Contains(prompt, `"Dev", "News"`) {
		t.Error("priority terms should be quoted into the prompt")
	}
	if !strings.HasPrefix(prompt, "USER OVERRIDE INSTRUCTIONS:") {
		t.Error("user instructions should lead the prompt")
	}
	if !strings.Contains(prompt, `{"bookmarks":[]}`) {
		t.Error("bookmark data should be embedded")
	}
}
