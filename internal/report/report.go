package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/brfin/newswire/internal/fetch"
	"github.com/brfin/newswire/internal/storage"
)

// Summary aggregates what a single pipeline run produced.
type Summary struct {
	TotalPages    int
	TotalURLs     int
	TotalArticles int
	FetchByKind   map[string]int
	ByStatus      map[string]int
	TotalBytes    int64
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}

// GenerateSummary aggregates fetch results and extracted articles into a
// Summary. pages is the number of search result pages archived.
func GenerateSummary(pages int, results []*fetch.Result, articles []*storage.Article) Summary {
	s := Summary{
		TotalPages:    pages,
		TotalURLs:     len(results),
		TotalArticles: len(articles),
		FetchByKind:   make(map[string]int),
		ByStatus:      make(map[string]int),
	}

	for i, r := range results {
		s.FetchByKind[string(r.Kind)]++
		s.TotalBytes += int64(len(r.Body))

		if i == 0 {
			s.StartTime = r.CreatedAt
			s.EndTime = r.CreatedAt
			continue
		}
		if r.CreatedAt.Before(s.StartTime) {
			s.StartTime = r.CreatedAt
		}
		if end := r.CreatedAt.Add(r.Duration); end.After(s.EndTime) {
			s.EndTime = end
		}
	}

	for _, a := range articles {
		s.ByStatus[string(a.Status)]++
	}

	s.Duration = s.EndTime.Sub(s.StartTime)
	return s
}

// WriteJSON writes the summary to the provided writer in JSON format.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// WriteText writes a human-readable run summary to the provided writer.
func WriteText(w io.Writer, summary Summary) error {
	const textTmpl = `Newswire Run Summary
--------------------
Search Pages:  {{.TotalPages}}
URLs Fetched:  {{.TotalURLs}}
Articles:      {{.TotalArticles}}
Total Bytes:   {{.TotalBytes}} bytes
Fetch Window:  {{.Duration}}

Fetch Outcomes:
{{- range $kind, $count := .FetchByKind}}
  {{$kind}}: {{$count}}
{{- else}}
  None
{{- end}}

Extraction Statuses:
{{- range $status, $count := .ByStatus}}
  {{$status}}: {{$count}}
{{- else}}
  None
{{- end}}
`

	t, err := template.New("textReport").Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if err := t.Execute(w, summary); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}
