// Package word implements the word registry repository.
//
// The registry mirrors the host CMS: one row per word with the title and
// URL slug it is published under. Rows are refreshed on every save and
// looked up in batch when cross-reference tokens are resolved to links.
package word

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jelyk/wortschatz-backend/internal/adapter/postgres"
	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// Repo provides word registry persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new word registry repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const upsertSQL = `
INSERT INTO words (id, title, slug)
VALUES ($1, $2, $3)
ON CONFLICT (id)
DO UPDATE SET title = EXCLUDED.title, slug = EXCLUDED.slug, updated_at = now()`

const findByTokensSQL = `
SELECT id, title, slug
FROM words
WHERE lower(title) = ANY($1::text[]) OR slug = ANY($2::text[])
ORDER BY id ASC`

type wordRow struct {
	ID    int64  `db:"id"`
	Title string `db:"title"`
	Slug  string `db:"slug"`
}

func (r wordRow) toDomain() domain.WordRef {
	return domain.WordRef{ID: r.ID, Title: r.Title, Slug: r.Slug}
}

// Upsert registers a word under its current title and slug, replacing any
// prior registration of the same id.
func (r *Repo) Upsert(ctx context.Context, ref domain.WordRef) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, upsertSQL, ref.ID, ref.Title, ref.Slug); err != nil {
		return postgres.MapError(err, "word", ref.ID)
	}
	return nil
}

// FindByTokens returns the registered words whose lowercased title or
// slug matches any of the given candidates. Both inputs empty short-
// circuits to no rows without a query.
func (r *Repo) FindByTokens(ctx context.Context, titles, slugs []string) ([]domain.WordRef, error) {
	if len(titles) == 0 && len(slugs) == 0 {
		return nil, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []wordRow
	if err := pgxscan.Select(ctx, q, &rows, findByTokensSQL, titles, slugs); err != nil {
		return nil, postgres.MapError(err, "words", 0)
	}

	refs := make([]domain.WordRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, row.toDomain())
	}
	return refs, nil
}
