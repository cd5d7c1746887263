package jsonbackend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/brfin/newswire/internal/storage"
)

// ensure jsonBackend implements storage.Backend
var _ storage.Backend = (*jsonBackend)(nil)

// jsonBackend accumulates a run's records in memory and writes two
// indented JSON arrays on Close: the article list and the raw search
// page archive. The two files are independent; a run with zero
// successfully extracted articles still produces both.
type jsonBackend struct {
	mu           sync.Mutex
	articlesPath string
	pagesPath    string
	articles     []*storage.Article
	pages        []*storage.RawPage
	closed       bool
}

// New creates a storage.Backend that writes the run artifacts to
// articlesPath and pagesPath when closed.
func New(articlesPath, pagesPath string) storage.Backend {
	return &jsonBackend{
		articlesPath: articlesPath,
		pagesPath:    pagesPath,
	}
}

func (b *jsonBackend) SaveArticle(ctx context.Context, a *storage.Article) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("jsonbackend: save on closed backend")
	}
	b.articles = append(b.articles, a)
	return nil
}

func (b *jsonBackend) SavePage(ctx context.Context, p *storage.RawPage) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("jsonbackend: save on closed backend")
	}
	b.pages = append(b.pages, p)
	return nil
}

func (b *jsonBackend) QueryArticles(ctx context.Context, filter storage.Filter) ([]*storage.Article, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var filtered []*storage.Article
	for _, a := range b.articles {
		if filter.URL != "" && a.URL != filter.URL {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Since != nil && a.CreatedAt.Before(*filter.Since) {
			continue
		}
		filtered = append(filtered, a)
	}

	// Newest first, matching the database backends.
	for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(filtered) {
			return []*storage.Article{}, nil
		}
		filtered = filtered[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(filtered) {
		filtered = filtered[:filter.Limit]
	}

	return filtered, nil
}

// Close flushes both artifact files. It is an error to close twice.
func (b *jsonBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("jsonbackend: already closed")
	}
	b.closed = true

	if err := writeArray(b.articlesPath, b.articles); err != nil {
		return err
	}
	return writeArray(b.pagesPath, b.pages)
}

func writeArray[T any](path string, records []T) error {
	// Encode an empty array rather than null when nothing was saved.
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonbackend: marshal %s: %w", path, err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("jsonbackend: write %s: %w", path, err)
	}
	return nil
}
