package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/brfin/newswire/internal/metrics"
	"github.com/brfin/newswire/pkg/httpclient"
)

const (
	// PageSize is the number of results the search API returns per request.
	PageSize = 10
	// MaxOffset bounds pagination; no request is issued at or beyond it.
	MaxOffset = 100
)

// Config configures the search API client.
type Config struct {
	// Endpoint is the base URL of the Custom Search API.
	Endpoint string
	// APIKey is the credential sent as the "key" query parameter.
	APIKey string
	// EngineID is the search engine identifier sent as "cx".
	EngineID string
	// MaxOffset overrides the default pagination bound when positive.
	MaxOffset int
}

// Client issues search API requests. Request-level failures here are fatal
// to the run: a broken search request means all subsequent URL discovery is
// meaningless, unlike an individual article fetch.
type Client struct {
	cfg    Config
	http   *httpclient.Client
	logger *slog.Logger
}

// NewClient creates a search client on top of the shared HTTP client.
func NewClient(cfg Config, hc *httpclient.Client, logger *slog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("search: endpoint is required")
	}
	if cfg.MaxOffset <= 0 {
		cfg.MaxOffset = MaxOffset
	}
	if hc == nil {
		hc = httpclient.New(httpclient.Config{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, http: hc, logger: logger}, nil
}

// Query identifies one search request: a term and a 0-based start offset.
// Values are immutable per issued request; the paginator advances the
// offset by PageSize.
type Query struct {
	Term  string
	Start int
}

// ResultPage is one successful search response: the raw body as received,
// the links extracted from its items, and the item count used by the
// paginator to detect end-of-results.
type ResultPage struct {
	Term      string
	Offset    int
	Raw       json.RawMessage
	Links     []string
	ItemCount int
}

type apiResponse struct {
	Items []apiItem `json:"items"`
}

type apiItem struct {
	// Pointer so a missing link field is distinguishable from an empty one.
	Link *string `json:"link"`
}

// Search issues a single request for q and decodes the response. Items
// lacking a link field are skipped without error, preserving the order of
// the rest. Transport errors and non-2xx statuses are returned as errors.
func (c *Client) Search(ctx context.Context, q Query) (*ResultPage, error) {
	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("cx", c.cfg.EngineID)
	params.Set("q", q.Term)
	params.Set("start", strconv.Itoa(q.Start))

	reqURL := c.cfg.Endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		metrics.RecordSearch(q.Term, 0)
		return nil, fmt.Errorf("search: request for %q at offset %d: %w", q.Term, q.Start, err)
	}
	defer resp.Body.Close()

	metrics.RecordSearch(q.Term, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search: request for %q at offset %d: unexpected status %d", q.Term, q.Start, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search: read response: %w", err)
	}

	var decoded apiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	page := &ResultPage{
		Term:      q.Term,
		Offset:    q.Start,
		Raw:       json.RawMessage(body),
		ItemCount: len(decoded.Items),
	}
	for _, item := range decoded.Items {
		if item.Link == nil {
			continue
		}
		page.Links = append(page.Links, *item.Link)
	}

	c.logger.Debug("search page retrieved",
		"term", q.Term, "offset", q.Start,
		"items", page.ItemCount, "links", len(page.Links))

	return page, nil
}

// Paginator is a finite, non-restartable pull iterator over search result
// pages, in term-major / offset-minor order. Usage follows bufio.Scanner:
//
//	p := client.Paginate(terms)
//	for p.Next(ctx) {
//		page := p.Page()
//	}
//	if err := p.Err(); err != nil { ... }
//
// A term stops paginating at the first response with zero items; a request
// error stops the whole iteration and is surfaced via Err.
type Paginator struct {
	client  *Client
	terms   []string
	termIdx int
	offset  int
	page    *ResultPage
	err     error
	done    bool
}

// Paginate returns a Paginator over the given query terms.
func (c *Client) Paginate(terms []string) *Paginator {
	return &Paginator{client: c, terms: terms}
}

// Next advances to the next non-empty result page. It returns false when
// all terms are exhausted or a fatal error occurred.
func (p *Paginator) Next(ctx context.Context) bool {
	if p.done {
		return false
	}

	for p.termIdx < len(p.terms) {
		if p.offset >= p.client.cfg.MaxOffset {
			p.nextTerm()
			continue
		}

		q := Query{Term: p.terms[p.termIdx], Start: p.offset}
		page, err := p.client.Search(ctx, q)
		if err != nil {
			p.err = err
			p.done = true
			return false
		}

		if page.ItemCount == 0 {
			// End of results for this term; never probe higher offsets.
			p.nextTerm()
			continue
		}

		p.page = page
		p.offset += PageSize
		return true
	}

	p.done = true
	return false
}

func (p *Paginator) nextTerm() {
	p.termIdx++
	p.offset = 0
}

// Page returns the page retrieved by the last successful call to Next.
func (p *Paginator) Page() *ResultPage {
	return p.page
}

// Err returns the error that terminated iteration, if any.
func (p *Paginator) Err() error {
	return p.err
}
