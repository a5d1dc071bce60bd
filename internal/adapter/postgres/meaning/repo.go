// Package meaning implements the Meaning repository using PostgreSQL.
// Reads go through scany row scanning; writes are built with squirrel.
package meaning

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jelyk/wortschatz-backend/internal/adapter/postgres"
	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// Repo provides meaning persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new meaning repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const listByWordSQL = `
SELECT id, word_id, meaning_order, gloss, usage_note, synonyms, antonyms, created_at, updated_at
FROM meanings
WHERE word_id = $1
ORDER BY meaning_order ASC, id ASC`

const listIDsByWordSQL = `
SELECT id FROM meanings WHERE word_id = $1 ORDER BY id ASC`

const countByWordSQL = `
SELECT count(*) FROM meanings WHERE word_id = $1`

type meaningRow struct {
	ID        int64     `db:"id"`
	WordID    int64     `db:"word_id"`
	Order     int       `db:"meaning_order"`
	Gloss     string    `db:"gloss"`
	UsageNote string    `db:"usage_note"`
	Synonyms  string    `db:"synonyms"`
	Antonyms  string    `db:"antonyms"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r meaningRow) toDomain() domain.Meaning {
	return domain.Meaning{
		ID:        r.ID,
		WordID:    r.WordID,
		Order:     r.Order,
		Gloss:     r.Gloss,
		UsageNote: r.UsageNote,
		Synonyms:  r.Synonyms,
		Antonyms:  r.Antonyms,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ListByWord returns all meanings of a word ordered by meaning_order
// ascending with id ascending as the tiebreak.
func (r *Repo) ListByWord(ctx context.Context, wordID int64) ([]domain.Meaning, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []meaningRow
	if err := pgxscan.Select(ctx, q, &rows, listByWordSQL, wordID); err != nil {
		return nil, postgres.MapError(err, "meanings of word", wordID)
	}

	meanings := make([]domain.Meaning, 0, len(rows))
	for _, row := range rows {
		meanings = append(meanings, row.toDomain())
	}
	return meanings, nil
}

// ListIDsByWord returns the ids of all meanings of a word.
func (r *Repo) ListIDsByWord(ctx context.Context, wordID int64) ([]int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var ids []int64
	if err := pgxscan.Select(ctx, q, &ids, listIDsByWordSQL, wordID); err != nil {
		return nil, postgres.MapError(err, "meaning ids of word", wordID)
	}
	return ids, nil
}

// CountByWord returns the number of meanings stored for a word.
func (r *Repo) CountByWord(ctx context.Context, wordID int64) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var count int
	if err := pgxscan.Get(ctx, q, &count, countByWordSQL, wordID); err != nil {
		return 0, postgres.MapError(err, "count meanings of word", wordID)
	}
	return count, nil
}

// Insert creates a meaning and returns its newly assigned id.
func (r *Repo) Insert(ctx context.Context, m domain.Meaning) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := qb.Insert("meanings").
		Columns("word_id", "meaning_order", "gloss", "usage_note", "synonyms", "antonyms").
		Values(m.WordID, m.Order, m.Gloss, m.UsageNote, m.Synonyms, m.Antonyms).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, postgres.MapError(err, "meaning of word", m.WordID)
	}

	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, "meaning of word", m.WordID)
	}
	return id, nil
}

// Update writes the sanitized fields of an existing meaning.
func (r *Repo) Update(ctx context.Context, m domain.Meaning) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := qb.Update("meanings").
		Set("meaning_order", m.Order).
		Set("gloss", m.Gloss).
		Set("usage_note", m.UsageNote).
		Set("synonyms", m.Synonyms).
		Set("antonyms", m.Antonyms).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "meaning", m.ID)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "meaning", m.ID)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(domain.ErrNotFound, "meaning", m.ID)
	}
	return nil
}

// Delete removes a meaning row. Its cards and translations are removed by
// the caller first; the FK cascade is only a safety net.
func (r *Repo) Delete(ctx context.Context, meaningID int64) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := qb.Delete("meanings").Where(sq.Eq{"id": meaningID}).ToSql()
	if err != nil {
		return postgres.MapError(err, "meaning", meaningID)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "meaning", meaningID)
	}
	return nil
}
