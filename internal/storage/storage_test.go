package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hnakamura/bmorg/internal/storage"
)

const sampleDoc = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3>Dev</H3>
    <DL><p>
        <DT><A HREF="https://go.dev">Go</A>
    </DL><p>
    <DT><A HREF="https://news.example">News Site</A>
</DL><p>
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookmarks.html")
	if err := os.WriteFile(path, []byte(sampleDoc), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

func TestRulesSidecarPath(t *testing.T) {
	got := storage.RulesSidecarPath("/data/bookmarks.html")
	want := "/data/bookmarks.bookmark_rules.json"
	if got != filepath.FromSlash(want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoadDocument_MissingSidecarUsesDefaults(t *testing.T) {
	doc, err := storage.LoadDocument(writeSample(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Root.Children()) != 2 {
		t.Errorf("expected 2 root children, got %d", len(doc.Root.Children()))
	}
	if len(doc.Rules) == 0 {
		t.Error("missing sidecar should fall back to default rules")
	}
}

func TestLoadDocument_CorruptSidecarUsesDefaults(t *testing.T) {
	path := writeSample(t)
	sidecar := storage.RulesSidecarPath(path)
	if err := os.WriteFile(sidecar, []byte("{broken"), 0644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	doc, err := storage.LoadDocument(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Rules) == 0 {
		t.Error("corrupt sidecar should fall back to default rules")
	}
}

func TestDocument_SaveRoundTrip(t *testing.T) {
	path := writeSample(t)
	doc, err := storage.LoadDocument(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	doc.Root.Children()[1].Title = "Renamed"
	if err := doc.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	again, err := storage.LoadDocument(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := again.Root.Children()[1].Title; got != "Renamed" {
		t.Errorf("edit lost through save/load: %q", got)
	}

	if _, err := os.Stat(doc.RulesPath); err != nil {
		t.Errorf("save should write the rules sidecar: %v", err)
	}
}

func TestDocument_SaveAs(t *testing.T) {
	doc, err := storage.LoadDocument(writeSample(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	newPath := filepath.Join(t.TempDir(), "out", "copy.html")
	if err := doc.SaveAs(newPath); err != nil {
		t.Fatalf("save as: %v", err)
	}

	if doc.Path != newPath {
		t.Errorf("document path should follow SaveAs, got %q", doc.Path)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("new document missing: %v", err)
	}
	if _, err := os.Stat(storage.RulesSidecarPath(newPath)); err != nil {
		t.Errorf("sidecar should follow the new name: %v", err)
	}
}

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SmartClassifyLimit != 300 {
		t.Errorf("default limit: got %d", cfg.SmartClassifyLimit)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file should be created with defaults: %v", err)
	}
}

func TestLoadConfig_FillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"proxyUrl":"http://proxy:8080"}`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ProxyURL != "http://proxy:8080" {
		t.Errorf("explicit field lost: %q", cfg.ProxyURL)
	}
	if cfg.SmartClassifyLimit != 300 || len(cfg.PriorityTerms) == 0 {
		t.Error("missing fields should take defaults")
	}
}
