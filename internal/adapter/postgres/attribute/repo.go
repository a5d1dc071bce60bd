// Package attribute implements the word attribute repository: the flat
// key-value fields of a word (grammatical forms and legacy flat fields).
package attribute

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jelyk/wortschatz-backend/internal/adapter/postgres"
	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// Repo provides word attribute persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new word attribute repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const getByWordSQL = `
SELECT word_id, attr_key, attr_value, updated_at
FROM word_attributes
WHERE word_id = $1
ORDER BY attr_key ASC`

const setSQL = `
INSERT INTO word_attributes (word_id, attr_key, attr_value)
VALUES ($1, $2, $3)
ON CONFLICT (word_id, attr_key)
DO UPDATE SET attr_value = EXCLUDED.attr_value, updated_at = now()`

const countLegacySQL = `
SELECT attr_key, count(*) AS n
FROM word_attributes
WHERE attr_key LIKE $1
GROUP BY attr_key
ORDER BY attr_key ASC`

const deleteLegacySQL = `
DELETE FROM word_attributes WHERE attr_key LIKE $1`

type attributeRow struct {
	WordID    int64     `db:"word_id"`
	Key       string    `db:"attr_key"`
	Value     string    `db:"attr_value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// GetByWord returns all attributes of a word keyed by attribute key.
func (r *Repo) GetByWord(ctx context.Context, wordID int64) (map[string]string, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []attributeRow
	if err := pgxscan.Select(ctx, q, &rows, getByWordSQL, wordID); err != nil {
		return nil, postgres.MapError(err, "attributes of word", wordID)
	}

	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

// Set upserts one attribute value.
func (r *Repo) Set(ctx context.Context, wordID int64, key, value string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, setSQL, wordID, key, value); err != nil {
		return postgres.MapError(err, "attribute of word", wordID)
	}
	return nil
}

// Delete removes one attribute of a word.
func (r *Repo) Delete(ctx context.Context, wordID int64, key string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := qb.Delete("word_attributes").
		Where(sq.Eq{"word_id": wordID, "attr_key": key}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "attribute of word", wordID)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "attribute of word", wordID)
	}
	return nil
}

// CountLegacy returns per-key counts of legacy flat attributes.
func (r *Repo) CountLegacy(ctx context.Context) (map[string]int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []struct {
		Key string `db:"attr_key"`
		N   int    `db:"n"`
	}
	if err := pgxscan.Select(ctx, q, &rows, countLegacySQL, domain.LegacyAttributePrefix+"%"); err != nil {
		return nil, postgres.MapError(err, "legacy attributes", 0)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Key] = row.N
	}
	return out, nil
}

// DeleteLegacy removes all legacy flat attributes and returns how many
// rows were deleted.
func (r *Repo) DeleteLegacy(ctx context.Context) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteLegacySQL, domain.LegacyAttributePrefix+"%")
	if err != nil {
		return 0, postgres.MapError(err, "legacy attributes", 0)
	}
	return tag.RowsAffected(), nil
}
