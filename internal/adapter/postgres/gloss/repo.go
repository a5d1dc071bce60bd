// Package gloss implements the meaning translation repository.
//
// Meaning translations are optional manual annotations with no external
// consumer, so absence is represented by row absence: empty submitted
// text deletes the row instead of blanking it. This is deliberately
// asymmetric with card translations.
package gloss

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jelyk/wortschatz-backend/internal/adapter/postgres"
	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// Repo provides meaning translation persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new meaning translation repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const upsertSQL = `
INSERT INTO meaning_translations (meaning_id, field, lang, text, status, source)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (meaning_id, field, lang)
DO UPDATE SET text = EXCLUDED.text, status = EXCLUDED.status, source = EXCLUDED.source, updated_at = now()`

const fetchByMeaningsSQL = `
SELECT id, meaning_id, field, lang, text, status, source, updated_at
FROM meaning_translations
WHERE meaning_id = ANY($1::bigint[])
ORDER BY meaning_id ASC, field ASC, lang ASC`

type glossRow struct {
	ID        int64     `db:"id"`
	MeaningID int64     `db:"meaning_id"`
	Field     string    `db:"field"`
	Lang      string    `db:"lang"`
	Text      string    `db:"text"`
	Status    string    `db:"status"`
	Source    string    `db:"source"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r glossRow) toDomain() domain.GlossTranslation {
	return domain.GlossTranslation{
		ID:        r.ID,
		MeaningID: r.MeaningID,
		Field:     r.Field,
		// normalize on read: storage may hold stale non-canonical codes
		Lang:      domain.NormalizeLang(r.Lang),
		Text:      r.Text,
		Status:    domain.TranslationStatus(r.Status),
		Source:    domain.TranslationSource(r.Source),
		UpdatedAt: r.UpdatedAt,
	}
}

// Upsert writes one translation row keyed by (meaning_id, field, lang),
// replacing any prior row for that key. The language is canonicalized
// first; input that normalizes to nothing is a no-op.
func (r *Repo) Upsert(ctx context.Context, meaningID int64, field, lang, text string, status domain.TranslationStatus, source domain.TranslationSource) error {
	lang = domain.NormalizeLang(lang)
	if lang == "" {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, upsertSQL, meaningID, field, lang, text, string(status), string(source)); err != nil {
		return postgres.MapError(err, "gloss translation of meaning", meaningID)
	}
	return nil
}

// Delete removes the row for one (meaning_id, field, lang) key. Deleting
// a row that does not exist is not an error.
func (r *Repo) Delete(ctx context.Context, meaningID int64, field, lang string) error {
	lang = domain.NormalizeLang(lang)
	if lang == "" {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := qb.Delete("meaning_translations").
		Where(sq.Eq{"meaning_id": meaningID, "field": field, "lang": lang}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "gloss translation of meaning", meaningID)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "gloss translation of meaning", meaningID)
	}
	return nil
}

// FetchByMeanings returns all translation rows of the given meanings,
// language codes canonicalized on read.
func (r *Repo) FetchByMeanings(ctx context.Context, meaningIDs []int64) ([]domain.GlossTranslation, error) {
	if len(meaningIDs) == 0 {
		return []domain.GlossTranslation{}, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []glossRow
	if err := pgxscan.Select(ctx, q, &rows, fetchByMeaningsSQL, meaningIDs); err != nil {
		return nil, postgres.MapError(err, "gloss translations of meanings", meaningIDs[0])
	}

	translations := make([]domain.GlossTranslation, 0, len(rows))
	for _, row := range rows {
		translations = append(translations, row.toDomain())
	}
	return translations, nil
}

// DeleteByMeaning removes every translation row of a meaning. Used by the
// reconciliation cascade before the meaning row itself is deleted.
func (r *Repo) DeleteByMeaning(ctx context.Context, meaningID int64) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := qb.Delete("meaning_translations").Where(sq.Eq{"meaning_id": meaningID}).ToSql()
	if err != nil {
		return postgres.MapError(err, "gloss translations of meaning", meaningID)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "gloss translations of meaning", meaningID)
	}
	return nil
}
