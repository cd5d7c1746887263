package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// containerParser implements the common shape of the per-site parsers:
// the header is the first <h1>; the content container is located by trying
// an ordered list of candidate selectors and using the first that matches.
// The candidate list exists because CMS migrations leave sites serving a
// mix of old and new article templates.
type containerParser struct {
	selectors []string
}

// G1Parser parses g1.globo.com article pages, including the legacy
// template variants and the WordPress-based regional portals.
func G1Parser() Parser {
	return &containerParser{
		selectors: []string{
			".mc-article-body",         // current g1 template
			"[itemprop='articleBody']", // schema.org markup
			".materia-conteudo",        // legacy g1
			".entry-content",           // WordPress default
			".post-content",
			".article-content",
			"#materia-letra",
		},
	}
}

// CNNParser parses cnnbrasil.com.br article pages.
func CNNParser() Parser {
	return &containerParser{
		selectors: []string{
			"div[data-single-content='true']",
		},
	}
}

func (p *containerParser) Parse(doc *goquery.Document) (string, string, bool) {
	header := strings.TrimSpace(doc.Find("h1").First().Text())
	if header == "" {
		header = FallbackHeader
	}

	for _, selector := range p.selectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}

		var paragraphs []string
		container.Find("p").Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		return header, strings.Join(paragraphs, " "), true
	}

	return header, FallbackContent, false
}
