// Package translation implements the card translation repository.
//
// Card translations have upsert-or-blank semantics: one row exists per
// (card_id, lang) for every recognized language once the card exists.
// Empty text is stored as a pending row so the external batch translator
// can find its work by scanning for status=pending; rows are only deleted
// together with their card.
package translation

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jelyk/wortschatz-backend/internal/adapter/postgres"
	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// Repo provides card translation persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new card translation repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const upsertSQL = `
INSERT INTO card_translations (card_id, lang, text, status, source)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (card_id, lang)
DO UPDATE SET text = EXCLUDED.text, status = EXCLUDED.status, source = EXCLUDED.source, updated_at = now()`

const fetchByCardsSQL = `
SELECT id, card_id, lang, text, status, source, updated_at
FROM card_translations
WHERE card_id = ANY($1::bigint[])
ORDER BY card_id ASC, lang ASC`

type translationRow struct {
	ID        int64     `db:"id"`
	CardID    int64     `db:"card_id"`
	Lang      string    `db:"lang"`
	Text      string    `db:"text"`
	Status    string    `db:"status"`
	Source    string    `db:"source"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r translationRow) toDomain() domain.CardTranslation {
	return domain.CardTranslation{
		ID:     r.ID,
		CardID: r.CardID,
		// normalize on read: storage may hold stale non-canonical codes
		Lang:      domain.NormalizeLang(r.Lang),
		Text:      r.Text,
		Status:    domain.TranslationStatus(r.Status),
		Source:    domain.TranslationSource(r.Source),
		UpdatedAt: r.UpdatedAt,
	}
}

// Upsert writes one translation row keyed by (card_id, lang), replacing
// any prior row for that key. The language is canonicalized first; input
// that normalizes to nothing is a no-op.
func (r *Repo) Upsert(ctx context.Context, cardID int64, lang, text string, status domain.TranslationStatus, source domain.TranslationSource) error {
	lang = domain.NormalizeLang(lang)
	if lang == "" {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, upsertSQL, cardID, lang, text, string(status), string(source)); err != nil {
		return postgres.MapError(err, "translation of card", cardID)
	}
	return nil
}

// FetchByCards returns all translation rows of the given cards, language
// codes canonicalized on read.
func (r *Repo) FetchByCards(ctx context.Context, cardIDs []int64) ([]domain.CardTranslation, error) {
	if len(cardIDs) == 0 {
		return []domain.CardTranslation{}, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []translationRow
	if err := pgxscan.Select(ctx, q, &rows, fetchByCardsSQL, cardIDs); err != nil {
		return nil, postgres.MapError(err, "translations of cards", cardIDs[0])
	}

	translations := make([]domain.CardTranslation, 0, len(rows))
	for _, row := range rows {
		translations = append(translations, row.toDomain())
	}
	return translations, nil
}

// DeleteByCard removes every translation row of a card. Used by the
// reconciliation cascade before the card row itself is deleted.
func (r *Repo) DeleteByCard(ctx context.Context, cardID int64) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := qb.Delete("card_translations").Where(sq.Eq{"card_id": cardID}).ToSql()
	if err != nil {
		return postgres.MapError(err, "translations of card", cardID)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "translations of card", cardID)
	}
	return nil
}
