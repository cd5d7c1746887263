package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brfin/newswire/internal/storage"
	_ "modernc.org/sqlite"
)

// ensure sqliteBackend implements storage.Backend
var _ storage.Backend = (*sqliteBackend)(nil)

type sqliteBackend struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	header TEXT NOT NULL,
	content TEXT NOT NULL,
	url TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS search_pages (
	id TEXT PRIMARY KEY,
	term TEXT NOT NULL,
	start_offset INTEGER NOT NULL,
	raw TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

// New creates a new SQLite-backed storage.Backend.
func New(dsn string) (storage.Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) SaveArticle(ctx context.Context, a *storage.Article) error {
	query := `
	INSERT INTO articles (id, header, content, url, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := b.db.ExecContext(ctx, query,
		a.ID,
		a.Header,
		a.Content,
		a.URL,
		string(a.Status),
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert article: %w", err)
	}
	return nil
}

func (b *sqliteBackend) SavePage(ctx context.Context, p *storage.RawPage) error {
	query := `
	INSERT INTO search_pages (id, term, start_offset, raw, created_at)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err := b.db.ExecContext(ctx, query,
		p.ID,
		p.Term,
		p.Offset,
		string(p.Raw),
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: insert page: %w", err)
	}
	return nil
}

func (b *sqliteBackend) QueryArticles(ctx context.Context, filter storage.Filter) ([]*storage.Article, error) {
	query := `SELECT id, header, content, url, status, created_at FROM articles WHERE 1=1`
	args := []any{}

	if filter.URL != "" {
		query += ` AND url = ?`
		args = append(args, filter.URL)
	}
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*filter.Status))
	}
	if filter.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, *filter.Since)
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query articles: %w", err)
	}
	defer rows.Close()

	var articles []*storage.Article
	for rows.Next() {
		var a storage.Article
		var status string

		if err := rows.Scan(&a.ID, &a.Header, &a.Content, &a.URL, &status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan article: %w", err)
		}
		a.Status = storage.Status(status)
		articles = append(articles, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate articles: %w", err)
	}

	return articles, nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
