package extract

import (
	"strings"
	"testing"

	"github.com/brfin/newswire/internal/storage"
)

const g1URL = "https://g1.globo.com/economia/noticia/2025/01/01/petrobras.ghtml"
const cnnURL = "https://www.cnnbrasil.com.br/economia/dolar-hoje/"

func TestExtract_G1Article(t *testing.T) {
	html := `<html><body>
		<h1>Petrobras anuncia resultado</h1>
		<div class="mc-article-body">
			<p>Hello</p>
			<p>World</p>
		</div>
	</body></html>`

	e := NewExtractor(nil)
	a := e.Extract(html, g1URL)

	if a.Status != storage.StatusOK {
		t.Fatalf("expected StatusOK, got %s", a.Status)
	}
	if a.Header != "Petrobras anuncia resultado" {
		t.Errorf("unexpected header %q", a.Header)
	}
	if a.Content != "Hello World" {
		t.Errorf("expected content %q, got %q", "Hello World", a.Content)
	}
	if a.URL != g1URL {
		t.Errorf("unexpected url %q", a.URL)
	}
}

func TestExtract_G1LegacySelectorFallback(t *testing.T) {
	// Legacy template: no mc-article-body, content under materia-conteudo.
	html := `<html><body>
		<h1>Título antigo</h1>
		<div class="materia-conteudo"><p>Texto legado</p></div>
	</body></html>`

	a := NewExtractor(nil).Extract(html, g1URL)
	if a.Status != storage.StatusOK {
		t.Fatalf("expected StatusOK, got %s", a.Status)
	}
	if a.Content != "Texto legado" {
		t.Errorf("unexpected content %q", a.Content)
	}
}

func TestExtract_CNNArticle(t *testing.T) {
	html := `<html><body>
		<h1>Dólar hoje</h1>
		<div data-single-content="true">
			<p>Primeiro parágrafo.</p>
			<p>Segundo parágrafo.</p>
		</div>
	</body></html>`

	a := NewExtractor(nil).Extract(html, cnnURL)
	if a.Status != storage.StatusOK {
		t.Fatalf("expected StatusOK, got %s", a.Status)
	}
	if a.Content != "Primeiro parágrafo. Segundo parágrafo." {
		t.Errorf("unexpected content %q", a.Content)
	}
}

func TestExtract_NoParserMatched(t *testing.T) {
	a := NewExtractor(nil).Extract("<html><body><p>x</p></body></html>", "https://example.com/article")

	if a.Status != storage.StatusNoParserMatched {
		t.Fatalf("expected StatusNoParserMatched, got %s", a.Status)
	}
	if a.Content == "" {
		t.Error("expected non-empty fallback content")
	}
	if a.Header != FallbackHeader {
		t.Errorf("expected fallback header, got %q", a.Header)
	}
}

func TestExtract_ContainerNotFound(t *testing.T) {
	html := `<html><body><h1>Só título</h1><div class="unrelated"><p>x</p></div></body></html>`

	a := NewExtractor(nil).Extract(html, g1URL)
	if a.Status != storage.StatusContainerNotFound {
		t.Fatalf("expected StatusContainerNotFound, got %s", a.Status)
	}
	if a.Content != FallbackContent {
		t.Errorf("expected fallback content, got %q", a.Content)
	}
	if a.Header != "Só título" {
		t.Errorf("header should still be extracted, got %q", a.Header)
	}
}

func TestExtract_MissingHeaderUsesFallback(t *testing.T) {
	html := `<html><body><div class="mc-article-body"><p>corpo</p></div></body></html>`

	a := NewExtractor(nil).Extract(html, g1URL)
	if a.Header != FallbackHeader {
		t.Errorf("expected fallback header, got %q", a.Header)
	}
	if a.Status != storage.StatusOK {
		t.Errorf("missing header must not degrade status, got %s", a.Status)
	}
}

func TestExtract_CollapsesWhitespace(t *testing.T) {
	html := "<html><body><h1>t</h1><div class=\"mc-article-body\">" +
		"<p>line one\n\nline   two</p>\n\n<p>\tline three</p>" +
		"</div></body></html>"

	a := NewExtractor(nil).Extract(html, g1URL)
	if strings.ContainsAny(a.Content, "\n\t") {
		t.Errorf("content contains raw whitespace: %q", a.Content)
	}
	if strings.Contains(a.Content, "  ") {
		t.Errorf("content contains multi-space run: %q", a.Content)
	}
	if a.Content != "line one line two line three" {
		t.Errorf("unexpected content %q", a.Content)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	html := `<html><body><h1>h</h1><div class="mc-article-body"><p>a</p><p>b</p></div></body></html>`

	e := NewExtractor(nil)
	first := e.Extract(html, g1URL)
	second := e.Extract(html, g1URL)

	if *first != *second {
		t.Errorf("extraction not idempotent: %+v vs %+v", first, second)
	}
}

func TestRegistry_FirstMatchWins(t *testing.T) {
	r := DefaultRegistry()

	// A URL containing both keys dispatches to the first registered site.
	site, ok := r.Match("https://g1.globo.com/sobre-a-cnn")
	if !ok {
		t.Fatal("expected a match")
	}
	if site.Key != "g1" {
		t.Errorf("expected g1 to win, got %s", site.Key)
	}

	if _, ok := r.Match("https://folha.uol.com.br/x"); ok {
		t.Error("expected no match for unregistered site")
	}
}
