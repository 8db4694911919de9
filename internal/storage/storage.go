// Package storage loads and saves bookmark documents: the Netscape HTML
// file itself plus its optional rules sidecar.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hnakamura/bmorg/internal/classify"
	"github.com/hnakamura/bmorg/internal/codec"
	"github.com/hnakamura/bmorg/internal/model"
)

// Document is a bookmark file loaded into memory together with its
// classification rules.
type Document struct {
	Root      *model.Node
	Rules     classify.Rules
	Path      string
	RulesPath string
}

// RulesSidecarPath derives the rules file path from the document path:
// "bookmarks.html" pairs with "bookmarks.bookmark_rules.json".
func RulesSidecarPath(docPath string) string {
	base := strings.TrimSuffix(docPath, filepath.Ext(docPath))
	return base + ".bookmark_rules.json"
}

// LoadDocument parses the bookmark file at path and its rules sidecar.
// A missing or unreadable sidecar is not an error; the document falls back
// to the built-in default rules.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	root, err := codec.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	doc := &Document{
		Root:      root,
		Path:      path,
		RulesPath: RulesSidecarPath(path),
	}
	doc.Rules = loadRules(doc.RulesPath)
	return doc, nil
}

// loadRules reads the sidecar leniently: anything wrong with the file just
// yields the defaults.
func loadRules(path string) classify.Rules {
	data, err := os.ReadFile(path)
	if err != nil {
		return classify.DefaultRules()
	}
	var rules classify.Rules
	if err := json.Unmarshal(data, &rules); err != nil || len(rules) == 0 {
		return classify.DefaultRules()
	}
	return rules
}

// Save writes the document and its rules sidecar back to their paths.
func (d *Document) Save() error {
	return d.SaveAs(d.Path)
}

// SaveAs writes the document to a new path; the sidecar follows the new
// name. The document's paths are updated on success.
func (d *Document) SaveAs(path string) error {
	if path == "" {
		return errors.New("save: empty path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(codec.Serialize(d.Root)), 0644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	rulesPath := RulesSidecarPath(path)
	data, err := json.MarshalIndent(d.Rules, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rules: %w", err)
	}
	if err := os.WriteFile(rulesPath, data, 0644); err != nil {
		return fmt.Errorf("write rules sidecar: %w", err)
	}

	d.Path = path
	d.RulesPath = rulesPath
	return nil
}
