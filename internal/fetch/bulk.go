package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FetchAll dispatches one goroutine per URL over the fetcher's shared
// client and waits for all of them. The returned slice is positional:
// out[i] is the outcome for urls[i] regardless of completion order, which
// is what lets callers re-associate content with its source URL.
//
// No concurrency cap is applied beyond the shared connection pool; batch
// sizes here are tens of URLs, not thousands.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []*Result {
	results := make([]*Result, len(urls))

	var g errgroup.Group
	for i, u := range urls {
		g.Go(func() error {
			results[i] = f.Fetch(ctx, u)
			return nil
		})
	}

	// Workers never return errors; failures live in the Results.
	_ = g.Wait()

	f.logger.Debug("bulk fetch complete", "urls", len(urls))
	return results
}
