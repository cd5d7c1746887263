// Package extract turns fetched HTML into structured article records.
//
// Extraction never fails: unknown sites, missing headings, and missing
// content containers all degrade into fixed fallback values with an
// explicit status, so a partially unreadable batch still yields a complete
// output artifact.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/brfin/newswire/internal/metrics"
	"github.com/brfin/newswire/internal/storage"
)

// Fallback values substituted when an extraction target is absent.
const (
	FallbackHeader  = "Title Not Available"
	FallbackContent = "Content Not Available"
)

// Parser extracts a header and raw content from a parsed document. The
// second return value reports whether a known content container was found.
type Parser interface {
	Parse(doc *goquery.Document) (header, content string, containerFound bool)
}

// Site binds a URL-substring key to its parser. The key is matched against
// the full source URL, e.g. "g1" matches "https://g1.globo.com/...".
type Site struct {
	Key    string
	Parser Parser
}

// Registry is an ordered list of supported site parsers. Order is
// significant: the first key contained in the source URL wins. The
// registry is read-only during a run.
type Registry struct {
	sites []Site
}

// NewRegistry builds a registry from the given sites, preserving order.
func NewRegistry(sites ...Site) *Registry {
	return &Registry{sites: sites}
}

// DefaultRegistry returns the built-in site parsers.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Site{Key: "g1", Parser: G1Parser()},
		Site{Key: "cnn", Parser: CNNParser()},
	)
}

// Match returns the first site whose key occurs in sourceURL.
func (r *Registry) Match(sourceURL string) (Site, bool) {
	for _, s := range r.sites {
		if strings.Contains(sourceURL, s.Key) {
			return s, true
		}
	}
	return Site{}, false
}

// Extractor maps (HTML, source URL) pairs to article records. It holds
// only the read-only registry, so calls are independent and the same input
// always produces the same output.
type Extractor struct {
	registry *Registry
}

// NewExtractor creates an Extractor. A nil registry uses DefaultRegistry.
func NewExtractor(registry *Registry) *Extractor {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Extractor{registry: registry}
}

// Extract dispatches to the parser registered for the source URL's site
// and normalizes the result. Whatever newline structure the parser leaves
// in the content, all whitespace runs are collapsed to single spaces so
// the content is one line of text.
func (e *Extractor) Extract(htmlBody, sourceURL string) *storage.Article {
	site, ok := e.registry.Match(sourceURL)
	if !ok {
		metrics.RecordExtraction("", string(storage.StatusNoParserMatched))
		return &storage.Article{
			Header:  FallbackHeader,
			Content: FallbackContent,
			URL:     sourceURL,
			Status:  storage.StatusNoParserMatched,
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		metrics.RecordExtraction(site.Key, string(storage.StatusContainerNotFound))
		return &storage.Article{
			Header:  FallbackHeader,
			Content: FallbackContent,
			URL:     sourceURL,
			Status:  storage.StatusContainerNotFound,
		}
	}

	header, content, found := site.Parser.Parse(doc)

	status := storage.StatusOK
	if !found {
		status = storage.StatusContainerNotFound
	}

	metrics.RecordExtraction(site.Key, string(status))

	return &storage.Article{
		Header:  header,
		Content: collapseWhitespace(content),
		URL:     sourceURL,
		Status:  status,
	}
}

// collapseWhitespace reduces every run of whitespace, newlines included,
// to a single space and trims the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
