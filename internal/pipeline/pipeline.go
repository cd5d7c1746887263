// Package pipeline wires the acquisition stages together: search
// pagination, concurrent page download, extraction, and persistence.
// Data flows strictly downward: terms, search pages, URLs, raw pages,
// articles. No stage retains state across runs.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brfin/newswire/internal/extract"
	"github.com/brfin/newswire/internal/fetch"
	"github.com/brfin/newswire/internal/report"
	"github.com/brfin/newswire/internal/search"
	"github.com/brfin/newswire/internal/storage"
)

// Pipeline orchestrates one acquisition run.
type Pipeline struct {
	Search    *search.Client
	Fetcher   *fetch.Fetcher
	Extractor *extract.Extractor
	Backend   storage.Backend
	Logger    *slog.Logger
}

// New assembles a Pipeline, validating that every stage is present.
func New(sc *search.Client, f *fetch.Fetcher, ex *extract.Extractor, backend storage.Backend, logger *slog.Logger) (*Pipeline, error) {
	if sc == nil {
		return nil, fmt.Errorf("pipeline: search client is required")
	}
	if f == nil {
		return nil, fmt.Errorf("pipeline: fetcher is required")
	}
	if backend == nil {
		return nil, fmt.Errorf("pipeline: storage backend is required")
	}
	if ex == nil {
		ex = extract.NewExtractor(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Search:    sc,
		Fetcher:   f,
		Extractor: ex,
		Backend:   backend,
		Logger:    logger,
	}, nil
}

// Run drives the full pipeline for the given query terms. A search-level
// failure aborts the run and is returned; individual fetch and extraction
// failures are captured in the saved articles, so a degraded run still
// produces a complete artifact. The returned summary covers whatever was
// collected.
func (p *Pipeline) Run(ctx context.Context, terms []string) (report.Summary, error) {
	pages := 0
	var urls []string

	paginator := p.Search.Paginate(terms)
	for paginator.Next(ctx) {
		page := paginator.Page()
		pages++

		raw := &storage.RawPage{
			ID:        uuid.New().String(),
			Term:      page.Term,
			Offset:    page.Offset,
			Raw:       page.Raw,
			CreatedAt: time.Now().UTC(),
		}
		if err := p.Backend.SavePage(ctx, raw); err != nil {
			return report.Summary{}, fmt.Errorf("pipeline: archive page: %w", err)
		}

		urls = append(urls, page.Links...)
		p.Logger.Info("search page archived",
			"term", page.Term, "offset", page.Offset, "links", len(page.Links))
	}
	if err := paginator.Err(); err != nil {
		// Broken search means broken credentials or endpoint; nothing
		// downstream is worth attempting.
		return report.Summary{}, fmt.Errorf("pipeline: search: %w", err)
	}

	p.Logger.Info("url discovery complete", "pages", pages, "urls", len(urls))

	results := p.Fetcher.FetchAll(ctx, urls)

	articles := make([]*storage.Article, 0, len(results))
	for _, res := range results {
		var article *storage.Article
		if res.OK() {
			article = p.Extractor.Extract(res.Body, res.URL)
		} else {
			// Keep a sentinel entry so the artifact stays complete and
			// downstream consumers can retry selectively.
			article = &storage.Article{
				Header:  extract.FallbackHeader,
				Content: "",
				URL:     res.URL,
				Status:  storage.StatusFetchFailed,
			}
			p.Logger.Warn("page fetch failed",
				"url", res.URL, "kind", string(res.Kind), "err", res.Error)
		}

		article.ID = uuid.New().String()
		article.CreatedAt = time.Now().UTC()

		if err := p.Backend.SaveArticle(ctx, article); err != nil {
			return report.Summary{}, fmt.Errorf("pipeline: save article: %w", err)
		}
		articles = append(articles, article)
	}

	summary := report.GenerateSummary(pages, results, articles)
	p.Logger.Info("run complete",
		"pages", pages, "urls", len(urls), "articles", len(articles))

	return summary, nil
}
