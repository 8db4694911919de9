package preview

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const maxIconBytes = 256 * 1024

// candidate icon paths tried against the site root, in order.
var iconPaths = []string{
	"/favicon.ico",
	"/favicon.png",
	"/apple-touch-icon.png",
	"/apple-touch-icon-precomposed.png",
}

// FetchFavicon tries the conventional icon locations on the bookmark's host
// and falls back to Google's favicon service. The result is a data URI
// suitable for embedding in the document's ICON attribute.
func (f *Fetcher) FetchFavicon(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("favicon: bad url %q", rawURL)
	}

	base := u.Scheme + "://" + u.Host
	for _, p := range iconPaths {
		if uri, err := f.fetchIcon(ctx, base+p); err == nil {
			return uri, nil
		} else if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	fallback := "https://www.google.com/s2/favicons?sz=32&domain=" + url.QueryEscape(u.Host)
	uri, err := f.fetchIcon(ctx, fallback)
	if err != nil {
		return "", fmt.Errorf("favicon for %s: %w", u.Host, err)
	}
	return uri, nil
}

func (f *Fetcher) fetchIcon(ctx context.Context, iconURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", iconURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty icon body")
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	mime = strings.TrimSpace(mime)
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = "image/x-icon"
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
