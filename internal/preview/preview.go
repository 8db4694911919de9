// Package preview fetches page metadata and favicons for bookmarks. Results
// feed an in-memory LRU backed by an optional SQLite store, so repeated
// lookups of the same URL never hit the network twice.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	xhtml "golang.org/x/net/html"
)

const (
	userAgent    = "Mozilla/5.0 (compatible; bmorg/1.0)"
	maxBodyBytes = 512 * 1024

	defaultRetries = 2
	retryBaseDelay = 500 * time.Millisecond
)

// ErrNotFound marks a definitive 404/410; callers should not retry it.
var ErrNotFound = errors.New("page not found")

// Metadata is what a page tells us about itself. OpenGraph tags win over
// the plain <title> and description meta when both are present.
type Metadata struct {
	Title       string
	Description string
}

// Fetcher retrieves page metadata over HTTP. Successful results are
// memoized in a bounded LRU so the same URL is fetched at most once per
// Fetcher.
type Fetcher struct {
	client  *http.Client
	retries int
	logger  *slog.Logger

	mu   sync.Mutex
	memo *Cache[Metadata]
}

// NewFetcher creates a Fetcher. A zero timeout means 10s.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		retries: defaultRetries,
		logger:  slog.Default(),
		memo:    NewCache[Metadata](1024),
	}
}

// Fetch downloads the page at rawURL and extracts its metadata. Transient
// failures are retried with exponential backoff; a 404 or 410 fails
// immediately with ErrNotFound.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Metadata, error) {
	f.mu.Lock()
	meta, ok := f.memo.Get(rawURL)
	f.mu.Unlock()
	if ok {
		return meta, nil
	}

	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return Metadata{}, ctx.Err()
			case <-time.After(delay):
			}
		}

		meta, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			f.mu.Lock()
			f.memo.Put(rawURL, meta)
			f.mu.Unlock()
			return meta, nil
		}
		if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return Metadata{}, err
		}
		f.logger.Debug("preview fetch failed", "url", rawURL, "attempt", attempt+1, "error", err)
		lastErr = err
	}
	return Metadata{}, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return Metadata{}, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	case resp.StatusCode != http.StatusOK:
		return Metadata{}, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	return ExtractMetadata(io.LimitReader(resp.Body, maxBodyBytes))
}

// ExtractMetadata parses HTML and pulls out the page title and description.
// og:title and og:description take precedence over <title> and the plain
// description meta tag.
func ExtractMetadata(r io.Reader) (Metadata, error) {
	var meta Metadata
	var plainTitle, plainDesc string

	z := xhtml.NewTokenizer(r)
	inTitle := false
	for {
		tt := z.Next()
		switch tt {
		case xhtml.ErrorToken:
			if z.Err() != io.EOF {
				return meta, fmt.Errorf("parse html: %w", z.Err())
			}
			if meta.Title == "" {
				meta.Title = plainTitle
			}
			if meta.Description == "" {
				meta.Description = plainDesc
			}
			return meta, nil

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "title":
				inTitle = tt == xhtml.StartTagToken
			case "meta":
				prop := strings.ToLower(attr(tok, "property"))
				name := strings.ToLower(attr(tok, "name"))
				content := strings.TrimSpace(attr(tok, "content"))
				switch {
				case prop == "og:title":
					meta.Title = content
				case prop == "og:description":
					meta.Description = content
				case name == "description":
					plainDesc = content
				}
			case "body":
				// Head is over; nothing below carries metadata.
				if meta.Title == "" {
					meta.Title = plainTitle
				}
				if meta.Description == "" {
					meta.Description = plainDesc
				}
				return meta, nil
			}

		case xhtml.EndTagToken:
			if z.Token().Data == "title" {
				inTitle = false
			}

		case xhtml.TextToken:
			if inTitle {
				plainTitle += string(z.Text())
				plainTitle = strings.TrimSpace(plainTitle)
			}
		}
	}
}

func attr(tok xhtml.Token, name string) string {
	for _, a := range tok.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}
