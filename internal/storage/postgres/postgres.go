package postgres

import (
	"context"
	"fmt"

	"github.com/brfin/newswire/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ensure postgresBackend implements storage.Backend
var _ storage.Backend = (*postgresBackend)(nil)

type postgresBackend struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	header TEXT NOT NULL,
	content TEXT NOT NULL,
	url TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS search_pages (
	id TEXT PRIMARY KEY,
	term TEXT NOT NULL,
	start_offset INTEGER NOT NULL,
	raw JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// New creates a new Postgres-backed storage.Backend.
func New(ctx context.Context, dsn string) (storage.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: create schema: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

func (b *postgresBackend) SaveArticle(ctx context.Context, a *storage.Article) error {
	query := `
	INSERT INTO articles (id, header, content, url, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := b.pool.Exec(ctx, query,
		a.ID,
		a.Header,
		a.Content,
		a.URL,
		string(a.Status),
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert article: %w", err)
	}
	return nil
}

func (b *postgresBackend) SavePage(ctx context.Context, p *storage.RawPage) error {
	query := `
	INSERT INTO search_pages (id, term, start_offset, raw, created_at)
	VALUES ($1, $2, $3, $4, $5)
	`

	_, err := b.pool.Exec(ctx, query,
		p.ID,
		p.Term,
		p.Offset,
		[]byte(p.Raw),
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert page: %w", err)
	}
	return nil
}

func (b *postgresBackend) QueryArticles(ctx context.Context, filter storage.Filter) ([]*storage.Article, error) {
	query := `SELECT id, header, content, url, status, created_at FROM articles WHERE 1=1`
	args := []any{}
	paramCount := 1

	if filter.URL != "" {
		query += fmt.Sprintf(` AND url = $%d`, paramCount)
		args = append(args, filter.URL)
		paramCount++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(` AND status = $%d`, paramCount)
		args = append(args, string(*filter.Status))
		paramCount++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, paramCount)
		args = append(args, *filter.Since)
		paramCount++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, paramCount)
		args = append(args, filter.Limit)
		paramCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, paramCount)
		args = append(args, filter.Offset)
		paramCount++
	}

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query articles: %w", err)
	}
	defer rows.Close()

	var articles []*storage.Article
	for rows.Next() {
		var a storage.Article
		var status string

		if err := rows.Scan(&a.ID, &a.Header, &a.Content, &a.URL, &status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan article: %w", err)
		}
		a.Status = storage.Status(status)
		articles = append(articles, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate articles: %w", err)
	}

	return articles, nil
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}
