package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/brfin/newswire/internal/fetch"
	"github.com/brfin/newswire/internal/storage"
)

func sampleRun() (int, []*fetch.Result, []*storage.Article) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	results := []*fetch.Result{
		{URL: "https://g1.globo.com/a", Kind: fetch.KindOK, Body: "aaaa", CreatedAt: base, Duration: time.Second},
		{URL: "https://g1.globo.com/b", Kind: fetch.KindTimeout, CreatedAt: base.Add(time.Second), Duration: 10 * time.Second},
		{URL: "https://cnn.com/c", Kind: fetch.KindOK, Body: "cc", CreatedAt: base.Add(2 * time.Second), Duration: time.Second},
	}
	articles := []*storage.Article{
		{Status: storage.StatusOK},
		{Status: storage.StatusFetchFailed},
		{Status: storage.StatusContainerNotFound},
	}
	return 2, results, articles
}

func TestGenerateSummary(t *testing.T) {
	pages, results, articles := sampleRun()
	s := GenerateSummary(pages, results, articles)

	if s.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", s.TotalPages)
	}
	if s.TotalURLs != 3 {
		t.Errorf("expected 3 urls, got %d", s.TotalURLs)
	}
	if s.TotalArticles != 3 {
		t.Errorf("expected 3 articles, got %d", s.TotalArticles)
	}
	if s.FetchByKind["ok"] != 2 || s.FetchByKind["timeout"] != 1 {
		t.Errorf("unexpected fetch kinds: %v", s.FetchByKind)
	}
	if s.ByStatus["ok"] != 1 || s.ByStatus["fetch_failed"] != 1 || s.ByStatus["container_not_found"] != 1 {
		t.Errorf("unexpected statuses: %v", s.ByStatus)
	}
	if s.TotalBytes != 6 {
		t.Errorf("expected 6 bytes, got %d", s.TotalBytes)
	}
	if s.Duration <= 0 {
		t.Errorf("expected positive duration, got %s", s.Duration)
	}
}

func TestGenerateSummary_Empty(t *testing.T) {
	s := GenerateSummary(0, nil, nil)
	if s.TotalURLs != 0 || s.TotalArticles != 0 {
		t.Errorf("unexpected totals: %+v", s)
	}
}

func TestWriteJSON(t *testing.T) {
	pages, results, articles := sampleRun()
	s := GenerateSummary(pages, results, articles)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, s); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["TotalArticles"].(float64) != 3 {
		t.Errorf("unexpected TotalArticles: %v", decoded["TotalArticles"])
	}
}

func TestWriteText(t *testing.T) {
	pages, results, articles := sampleRun()
	s := GenerateSummary(pages, results, articles)

	var buf bytes.Buffer
	if err := WriteText(&buf, s); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Search Pages:  2", "timeout: 1", "container_not_found: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected text report to contain %q:\n%s", want, out)
		}
	}
}
