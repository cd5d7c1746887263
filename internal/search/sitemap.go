package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/oxffaa/gopher-parse-sitemap"

	"github.com/brfin/newswire/pkg/httpclient"
)

// SitemapDiscoverer finds candidate article URLs from a news site's
// sitemap.xml, as an alternate URL source feeding the same fetch stage as
// API search results.
type SitemapDiscoverer struct {
	http   *httpclient.Client
	logger *slog.Logger
}

// NewSitemapDiscoverer creates a discoverer on top of the shared HTTP client.
func NewSitemapDiscoverer(hc *httpclient.Client, logger *slog.Logger) *SitemapDiscoverer {
	if hc == nil {
		hc = httpclient.New(httpclient.Config{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SitemapDiscoverer{http: hc, logger: logger}
}

// Discover fetches sitemapURL and returns every URL it lists. If the
// document is a sitemap index, each nested sitemap is fetched once (no
// deeper recursion).
func (d *SitemapDiscoverer) Discover(ctx context.Context, sitemapURL string) ([]string, error) {
	body, err := d.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	var urls []string
	err = sitemap.Parse(bytes.NewReader(body), func(e sitemap.Entry) error {
		urls = append(urls, e.GetLocation())
		return nil
	})

	if err == nil && len(urls) > 0 {
		d.logger.Debug("sitemap parsed", "url", sitemapURL, "entries", len(urls))
		return urls, nil
	}

	// Possibly a sitemap index pointing at per-section sitemaps.
	var nested []string
	indexErr := sitemap.ParseIndex(bytes.NewReader(body), func(e sitemap.IndexEntry) error {
		nested = append(nested, e.GetLocation())
		return nil
	})
	if indexErr != nil || len(nested) == 0 {
		return nil, fmt.Errorf("search: parse sitemap %s: no entries", sitemapURL)
	}

	for _, nestedURL := range nested {
		nestedBody, err := d.get(ctx, nestedURL)
		if err != nil {
			d.logger.Warn("nested sitemap fetch failed", "url", nestedURL, "err", err)
			continue
		}
		_ = sitemap.Parse(bytes.NewReader(nestedBody), func(e sitemap.Entry) error {
			urls = append(urls, e.GetLocation())
			return nil
		})
	}

	d.logger.Debug("sitemap index parsed", "url", sitemapURL, "sitemaps", len(nested), "entries", len(urls))
	return urls, nil
}

func (d *SitemapDiscoverer) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("search: build sitemap request: %w", err)
	}

	resp, err := d.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: fetch sitemap %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("search: fetch sitemap %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search: read sitemap %s: %w", rawURL, err)
	}
	return body, nil
}
