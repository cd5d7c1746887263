package postgres

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/brfin/newswire/internal/storage"
)

func TestPostgresBackend(t *testing.T) {
	// Only run this test if NEWSWIRE_TEST_PG_DSN is set
	dsn := os.Getenv("NEWSWIRE_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("Skipping Postgres backend test: NEWSWIRE_TEST_PG_DSN not set")
	}

	ctx := context.Background()
	b, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to create Postgres backend: %v", err)
	}
	defer b.Close()

	now := time.Now().UTC()

	a := &storage.Article{
		ID:        "testpg1",
		Header:    "Headline",
		Content:   "Body",
		URL:       "https://g1.globo.com/pg-test",
		Status:    storage.StatusOK,
		CreatedAt: now,
	}
	if err := b.SaveArticle(ctx, a); err != nil {
		t.Fatalf("SaveArticle: %v", err)
	}

	p := &storage.RawPage{
		ID:        "testpg-page1",
		Term:      "Petrobras",
		Offset:    0,
		Raw:       json.RawMessage(`{"items":[]}`),
		CreatedAt: now,
	}
	if err := b.SavePage(ctx, p); err != nil {
		t.Fatalf("SavePage: %v", err)
	}

	got, err := b.QueryArticles(ctx, storage.Filter{URL: a.URL, Limit: 1})
	if err != nil {
		t.Fatalf("QueryArticles: %v", err)
	}
	if len(got) != 1 || got[0].Header != "Headline" || got[0].Status != storage.StatusOK {
		t.Errorf("unexpected query result: %+v", got)
	}
}
