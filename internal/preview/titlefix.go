package preview

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/hnakamura/bmorg/internal/model"
)

// TitleResult holds the outcome of fetching one bookmark's real title.
type TitleResult struct {
	Bookmark *model.Node
	Title    string
	Err      error
}

// ProgressFunc is called after each bookmark is processed.
// completed is the number processed so far, total is the total count.
type ProgressFunc func(completed, total int)

// FixTitles fetches the live page title for every bookmark concurrently and
// applies it to the node. Bookmarks whose pages cannot be reached keep their
// current title with an "ERROR: " marker prepended, so a later pass can find
// and retry them. Cancel the context to stop early; work already applied
// stays applied.
func (f *Fetcher) FixTitles(ctx context.Context, bookmarks []*model.Node, concurrency int, onProgress ProgressFunc) []TitleResult {
	if len(bookmarks) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	// Suppress noisy HTTP client logging (protocol errors, unsolicited responses, etc.)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	results := make([]TitleResult, len(bookmarks))
	jobs := make(chan int, len(bookmarks))
	var wg sync.WaitGroup

	var progressMu sync.Mutex
	completed := 0

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = TitleResult{Bookmark: bookmarks[idx], Err: ctx.Err()}
					continue
				}
				results[idx] = f.fixTitle(ctx, bookmarks[idx])

				if onProgress != nil {
					progressMu.Lock()
					completed++
					onProgress(completed, len(bookmarks))
					progressMu.Unlock()
				}
			}
		}()
	}

	for i := range bookmarks {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func (f *Fetcher) fixTitle(ctx context.Context, bm *model.Node) TitleResult {
	result := TitleResult{Bookmark: bm}

	meta, err := f.Fetch(ctx, bm.URL)
	if err != nil || meta.Title == "" {
		result.Err = err
		if !strings.HasPrefix(bm.Title, "ERROR: ") {
			bm.Title = "ERROR: " + bm.Title
		}
		return result
	}

	result.Title = meta.Title
	bm.Title = meta.Title
	return result
}
