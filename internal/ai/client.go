// Package ai calls the external classifier that groups bookmarks into
// folders. It only speaks the boundary contract: (title, url) descriptors
// go out, folder-name groups come back. Mapping groups back onto tree
// nodes is the classify package's job.
package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hnakamura/bmorg/internal/classify"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	betaHeader = "structured-outputs-2025-11-13"
	haikuModel = "claude-haiku-4-5-20251001"

	// DefaultMaxItems caps how many bookmarks one call may carry.
	DefaultMaxItems = 300

	maxTitleLen = 150
	// fallbackFolder collects assignments that land in no viable group.
	fallbackFolder = "Unsorted"
)

var (
	ErrNoAPIKey        = errors.New("ANTHROPIC_API_KEY environment variable not set")
	ErrAPIRequest      = errors.New("API request failed")
	ErrInvalidResponse = errors.New("invalid API response")
)

// Client handles communication with the Anthropic API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClientParams holds optional configuration for NewClient.
type NewClientParams struct {
	ProxyURL string        // forward requests through this proxy if set
	Timeout  time.Duration // 0 means 60s
	Logger   *slog.Logger  // nil means slog.Default()
}

// NewClient creates a classification client.
// Returns an error if ANTHROPIC_API_KEY is not set.
func NewClient(params NewClientParams) (*Client, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	timeout := params.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	transport := http.DefaultTransport
	if params.ProxyURL != "" {
		proxy, err := url.Parse(params.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
	}
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}, nil
}

// Classify sends one batch of bookmarks and returns the folder groups the
// model proposes. A response that does not match the contract yields zero
// groups, not an error.
func (c *Client) Classify(req Request) (*Result, error) {
	maxItems := req.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	descriptors := req.Bookmarks
	if len(descriptors) > maxItems {
		descriptors = descriptors[:maxItems]
	}
	if len(descriptors) == 0 {
		return &Result{}, nil
	}

	items := make([]item, len(descriptors))
	for i, d := range descriptors {
		title := d.Title
		if len(title) > maxTitleLen {
			title = title[:maxTitleLen]
		}
		items[i] = item{Index: i, Title: title, Domain: domainOf(d.URL), URL: d.URL}
	}
	data, err := json.Marshal(struct {
		Bookmarks []item `json:"bookmarks"`
	}{items})
	if err != nil {
		return nil, fmt.Errorf("marshal bookmarks: %w", err)
	}

	prompt := buildPrompt(req.PriorityTerms, req.Instructions, string(data))
	c.logger.Info("classifying bookmarks", "count", len(items))

	reqBody := apiRequest{
		Model:     haikuModel,
		MaxTokens: 4096,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
		OutputFormat: &outputFormat{
			Type: "json_schema",
			Schema: jsonSchema{
				Type: "object",
				Properties: map[string]schemaProp{
					"groups": {
						Type: "array",
						Items: &schemaProp{
							Type: "object",
							Properties: map[string]schemaProp{
								"folder":  {Type: "string"},
								"indices": {Type: "array", Items: &schemaProp{Type: "integer"}},
							},
							Required: []string{"folder", "indices"},
						},
					},
				},
				Required:             []string{"groups"},
				AdditionalProperties: false,
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)
	httpReq.Header.Set("anthropic-beta", betaHeader)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrAPIRequest, resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(apiResp.Content) == 0 || apiResp.Content[0].Type != "text" {
		return nil, ErrInvalidResponse
	}

	result := &Result{
		Sent:     len(jsonData),
		Received: len(body),
		Groups:   decodeGroups([]byte(apiResp.Content[0].Text), descriptors),
	}
	c.logger.Info("classification finished",
		"groups", len(result.Groups),
		"elapsed", time.Since(start).Round(100*time.Millisecond),
		"sent", result.Sent,
		"received", result.Received,
	)
	return result, nil
}

// decodeGroups maps the model's index groups back to descriptors. A body
// that does not parse, or indices out of range, simply contribute nothing.
func decodeGroups(body []byte, submitted []classify.Descriptor) []classify.Group {
	var resp classifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil
	}

	var groups []classify.Group
	for _, g := range resp.Groups {
		folder := sanitizeFolderName(g.Folder)
		var items []classify.Descriptor
		for _, idx := range g.Indices {
			if idx >= 0 && idx < len(submitted) {
				items = append(items, submitted[idx])
			}
		}
		if len(items) > 0 {
			groups = append(groups, classify.Group{Folder: folder, Items: items})
		}
	}
	return consolidate(groups)
}

// consolidate folds singleton groups into the largest multi-item group, or
// into a single fallback folder when no multi-item group exists. Small
// scattered folders are worse than one catch-all.
func consolidate(groups []classify.Group) []classify.Group {
	var large []classify.Group
	var small []classify.Descriptor
	largest := -1
	for _, g := range groups {
		if len(g.Items) >= 2 {
			large = append(large, g)
			if largest == -1 || len(g.Items) > len(large[largest].Items) {
				largest = len(large) - 1
			}
		} else {
			small = append(small, g.Items...)
		}
	}
	if len(small) == 0 {
		return large
	}
	if largest >= 0 {
		large[largest].Items = append(large[largest].Items, small...)
		return large
	}
	return []classify.Group{{Folder: fallbackFolder, Items: small}}
}

// sanitizeFolderName keeps folder names usable as single path segments.
func sanitizeFolderName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "/", "_"))
	if name == "" {
		return fallbackFolder
	}
	return name
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

func buildPrompt(priorityTerms []string, instructions, dataJSON string) string {
	quoted := make([]string, len(priorityTerms))
	for i, term := range priorityTerms {
		quoted[i] = fmt.Sprintf("%q", term)
	}

	prompt := fmt.Sprintf(`Group the following bookmarks into a small number of well-named folders.

Rules:
- Propose concise folder names in the language of the bookmark titles
- Every folder groups bookmarks by topic, not by site
- Prefer these category terms when they fit: %s
- Reference bookmarks by their "index" field only
- Leave a bookmark out rather than forcing it into a bad fit

Data Analysis Tip: use the "domain" field to understand the site's context when titles are vague.

Bookmarks:
%s`, strings.Join(quoted, ", "), dataJSON)

	if instructions != "" {
		prompt = fmt.Sprintf("USER OVERRIDE INSTRUCTIONS:\n- %s\n\n%s", instructions, prompt)
	}
	return prompt
}
