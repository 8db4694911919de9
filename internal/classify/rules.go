// Package classify turns bookmark collections into move plans: locally via
// ordered domain/keyword rules, or by reconciling the groups an external AI
// classifier returns against the nodes that were submitted to it.
package classify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Rule matches bookmarks for one target folder. Domains are substring
// matches against the URL; keywords match the URL or the title. All
// matching is case-insensitive.
type Rule struct {
	Domains  []string `json:"domains"`
	Keywords []string `json:"keywords"`
}

// Match reports whether the rule matches a bookmark's title and URL.
func (r Rule) Match(title, url string) bool {
	u := strings.ToLower(url)
	t := strings.ToLower(title)
	for _, d := range r.Domains {
		if d != "" && strings.Contains(u, strings.ToLower(d)) {
			return true
		}
	}
	for _, k := range r.Keywords {
		lk := strings.ToLower(k)
		if lk != "" && (strings.Contains(u, lk) || strings.Contains(t, lk)) {
			return true
		}
	}
	return false
}

// NamedRule pairs a rule with its target folder name.
type NamedRule struct {
	Folder string
	Rule   Rule
}

// Rules is an ordered rule set; iteration order determines first-match
// priority. Its JSON form is the sidecar's object mapping folder name to
// rule, with object key order preserved.
type Rules []NamedRule

// DefaultRules returns the built-in starter rule set.
func DefaultRules() Rules {
	return Rules{
		{"Google", Rule{
			Domains:  []string{"google.com", "gmail.com", "drive.google.com"},
			Keywords: []string{"google", "gmail", "drive"},
		}},
		{"YouTube", Rule{
			Domains:  []string{"youtube.com", "youtu.be"},
			Keywords: []string{"youtube", "yt"},
		}},
		{"News", Rule{
			Domains:  []string{"cnn.com", "bbc.co.uk", "nytimes.com", "news.yahoo"},
			Keywords: []string{"news", "article"},
		}},
		{"Social", Rule{
			Domains:  []string{"twitter.com", "x.com", "facebook.com", "instagram.com", "linkedin.com"},
			Keywords: []string{"twitter", "facebook", "instagram", "linkedin"},
		}},
		{"Dev", Rule{
			Domains:  []string{"github.com", "gitlab.com", "stackoverflow.com", "pypi.org", "readthedocs"},
			Keywords: []string{"github", "docs", "api", "stack overflow"},
		}},
		{"Shopping", Rule{
			Domains:  []string{"amazon.", "rakuten.", "taobao.", "jd.com"},
			Keywords: []string{"cart", "buy", "store"},
		}},
	}
}

// UnmarshalJSON decodes the sidecar object while preserving key order,
// which encoding/json's map decoding would lose.
func (rs *Rules) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("rules: expected JSON object, got %v", tok)
	}

	var out Rules
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("rules: expected object key, got %v", keyTok)
		}
		var rule Rule
		if err := dec.Decode(&rule); err != nil {
			return fmt.Errorf("rules: folder %q: %w", name, err)
		}
		out = append(out, NamedRule{Folder: name, Rule: rule})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*rs = out
	return nil
}

// MarshalJSON encodes the sidecar object in rule order.
func (rs Rules) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, nr := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(nr.Folder)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(nr.Rule)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
