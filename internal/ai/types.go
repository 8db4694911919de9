package ai

import "github.com/hnakamura/bmorg/internal/classify"

// Request describes one batch classification call.
type Request struct {
	Bookmarks     []classify.Descriptor
	PriorityTerms []string
	Instructions  string // accumulated user override instructions, may be empty
	MaxItems      int    // 0 means DefaultMaxItems
}

// Result is the outcome of a batch classification call.
type Result struct {
	Groups   []classify.Group
	Sent     int // request bytes, for traffic reporting
	Received int // response bytes
}

// item is one bookmark as presented to the classifier. The domain field is
// included so the model can lean on the site when the title is vague.
type item struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Domain string `json:"domain"`
	URL    string `json:"url"`
}

// groupResult is one folder assignment in the classifier's response;
// indices refer to positions in the submitted item list.
type groupResult struct {
	Folder  string `json:"folder"`
	Indices []int  `json:"indices"`
}

type classifyResponse struct {
	Groups []groupResult `json:"groups"`
}

// apiRequest represents the Anthropic API request body.
type apiRequest struct {
	Model        string        `json:"model"`
	MaxTokens    int           `json:"max_tokens"`
	Messages     []apiMessage  `json:"messages"`
	OutputFormat *outputFormat `json:"output_format,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type outputFormat struct {
	Type   string     `json:"type"`
	Schema jsonSchema `json:"schema"`
}

type jsonSchema struct {
	Type                 string                `json:"type"`
	Properties           map[string]schemaProp `json:"properties"`
	Required             []string              `json:"required"`
	AdditionalProperties bool                  `json:"additionalProperties"`
}

type schemaProp struct {
	Type       string                `json:"type"`
	Items      *schemaProp           `json:"items,omitempty"`
	Properties map[string]schemaProp `json:"properties,omitempty"`
	Required   []string              `json:"required,omitempty"`
}

// apiResponse represents the Anthropic API response body.
type apiResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
