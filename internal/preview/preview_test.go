package preview_test

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hnakamura/bmorg/internal/preview"
)

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := preview.NewCache[string](2)
	c.Put("a", "1")
	c.Put("b", "2")

	// Touch "a" so "b" becomes the coldest entry.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}

	c.Put("c", "3")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Error("a should survive, it was recently used")
	}
	if v, ok := c.Get("c"); !ok || v != "3" {
		t.Error("c should be cached")
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}

func TestCache_PutUpdatesExisting(t *testing.T) {
	c := preview.NewCache[int](2)
	c.Put("k", 1)
	c.Put("k", 2)

	if v, _ := c.Get("k"); v != 2 {
		t.Errorf("expected updated value 2, got %d", v)
	}
	if c.Len() != 1 {
		t.Errorf("update should not grow the cache, len=%d", c.Len())
	}
}

func TestExtractMetadata(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantTitle string
		wantDesc  string
	}{
		{
			name: "open graph wins over plain tags",
			html: `<html><head>
				<title>Plain Title</title>
				<meta name="description" content="plain desc">
				<meta property="og:title" content="OG Title">
				<meta property="og:description" content="OG desc">
			</head><body></body></html>`,
			wantTitle: "OG Title",
			wantDesc:  "OG desc",
		},
		{
			name:      "falls back to title tag",
			html:      `<html><head><title>  Spaced Title  </title></head><body></body></html>`,
			wantTitle: "Spaced Title",
		},
		{
			name:     "plain description meta",
			html:     `<head><meta name="Description" content="hello"></head>`,
			wantDesc: "hello",
		},
		{
			name:      "stops at body",
			html:      `<head><title>Real</title></head><body><title>Fake</title></body>`,
			wantTitle: "Real",
		},
		{
			name: "no metadata at all",
			html: `<html><body><p>nothing here</p></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := preview.ExtractMetadata(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if meta.Title != tt.wantTitle {
				t.Errorf("title: got %q, want %q", meta.Title, tt.wantTitle)
			}
			if meta.Description != tt.wantDesc {
				t.Errorf("description: got %q, want %q", meta.Description, tt.wantDesc)
			}
		})
	}
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "previews.db")
	s, err := preview.NewStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get("https://missing.example"); err != nil || ok {
		t.Fatalf("missing url: ok=%v err=%v", ok, err)
	}

	e := preview.Entry{
		URL:         "https://go.dev",
		Title:       "The Go Programming Language",
		Description: "Build simple, secure, scalable systems",
		Icon:        "data:image/png;base64,AAAA",
	}
	if err := s.Put(e); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := s.Get("https://go.dev")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Title != e.Title || got.Description != e.Description || got.Icon != e.Icon {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.FetchedAt.IsZero() {
		t.Error("fetched_at should be set on put")
	}
}

func TestStore_Prune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "previews.db")
	s, err := preview.NewStore(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	old := time.Now().Add(-48 * time.Hour)
	for i := 0; i < 3; i++ {
		err := s.Put(preview.Entry{
			URL:       fmt.Sprintf("https://old%d.example", i),
			FetchedAt: old,
		})
		if err != nil {
			t.Fatalf("put old: %v", err)
		}
	}
	if err := s.Put(preview.Entry{URL: "https://fresh.example"}); err != nil {
		t.Fatalf("put fresh: %v", err)
	}

	n, err := s.Prune(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 pruned, got %d", n)
	}
	if _, ok, _ := s.Get("https://fresh.example"); !ok {
		t.Error("fresh entry should survive pruning")
	}
}
