package storage

import (
	"context"
	"encoding/json"
	"time"
)

// Status records how far extraction got for an article.
type Status string

const (
	StatusOK                Status = "ok"
	StatusNoParserMatched   Status = "no_parser_matched"
	StatusContainerNotFound Status = "container_not_found"
	StatusFetchFailed       Status = "fetch_failed"
)

// Article is the terminal artifact of a pipeline run: one extracted
// news article, fully constructed by a single extractor invocation.
type Article struct {
	ID        string    `json:"-"`
	Header    string    `json:"header"`
	Content   string    `json:"content"`
	URL       string    `json:"url"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"-"`
}

// RawPage archives one raw search-API response exactly as received,
// independent of whether any of its links survived extraction.
type RawPage struct {
	ID        string          `json:"-"`
	Term      string          `json:"term"`
	Offset    int             `json:"offset"`
	Raw       json.RawMessage `json:"raw"`
	CreatedAt time.Time       `json:"-"`
}

// Filter allows querying for specific Articles.
type Filter struct {
	URL    string
	Status *Status
	Since  *time.Time
	Limit  int
	Offset int
}

// Backend defines the interface for persisting a run's output.
type Backend interface {
	SaveArticle(ctx context.Context, a *Article) error
	SavePage(ctx context.Context, p *RawPage) error
	QueryArticles(ctx context.Context, filter Filter) ([]*Article, error)
	Close() error
}
