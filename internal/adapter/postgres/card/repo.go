// Package card implements the Card repository using PostgreSQL.
package card

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jelyk/wortschatz-backend/internal/adapter/postgres"
	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// Repo provides card persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new card repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const listByMeaningsSQL = `
SELECT id, meaning_id, card_order, image_ref, sentence, created_at, updated_at
FROM cards
WHERE meaning_id = ANY($1::bigint[])
ORDER BY meaning_id ASC, card_order ASC, id ASC`

const listIDsByMeaningSQL = `
SELECT id FROM cards WHERE meaning_id = $1 ORDER BY id ASC`

type cardRow struct {
	ID        int64     `db:"id"`
	MeaningID int64     `db:"meaning_id"`
	Order     int       `db:"card_order"`
	ImageRef  int64     `db:"image_ref"`
	Sentence  string    `db:"sentence"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r cardRow) toDomain() domain.Card {
	return domain.Card{
		ID:        r.ID,
		MeaningID: r.MeaningID,
		Order:     r.Order,
		ImageRef:  r.ImageRef,
		Sentence:  r.Sentence,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ListByMeanings returns the cards of all given meanings ordered by
// card_order ascending with id ascending as the tiebreak.
func (r *Repo) ListByMeanings(ctx context.Context, meaningIDs []int64) ([]domain.Card, error) {
	if len(meaningIDs) == 0 {
		return []domain.Card{}, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []cardRow
	if err := pgxscan.Select(ctx, q, &rows, listByMeaningsSQL, meaningIDs); err != nil {
		return nil, postgres.MapError(err, "cards of meanings", meaningIDs[0])
	}

	cards := make([]domain.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, row.toDomain())
	}
	return cards, nil
}

// ListIDsByMeaning returns the ids of all cards under a meaning.
func (r *Repo) ListIDsByMeaning(ctx context.Context, meaningID int64) ([]int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var ids []int64
	if err := pgxscan.Select(ctx, q, &ids, listIDsByMeaningSQL, meaningID); err != nil {
		return nil, postgres.MapError(err, "card ids of meaning", meaningID)
	}
	return ids, nil
}

// Insert creates a card and returns its newly assigned id.
func (r *Repo) Insert(ctx context.Context, c domain.Card) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := qb.Insert("cards").
		Columns("meaning_id", "card_order", "image_ref", "sentence").
		Values(c.MeaningID, c.Order, c.ImageRef, c.Sentence).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, postgres.MapError(err, "card of meaning", c.MeaningID)
	}

	var id int64
	if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, "card of meaning", c.MeaningID)
	}
	return id, nil
}

// Update writes the sanitized fields of an existing card.
func (r *Repo) Update(ctx context.Context, c domain.Card) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := qb.Update("cards").
		Set("card_order", c.Order).
		Set("image_ref", c.ImageRef).
		Set("sentence", c.Sentence).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "card", c.ID)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "card", c.ID)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(domain.ErrNotFound, "card", c.ID)
	}
	return nil
}

// Delete removes a card row. Its translations are removed by the caller
// first; the FK cascade is only a safety net.
func (r *Repo) Delete(ctx context.Context, cardID int64) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := qb.Delete("cards").Where(sq.Eq{"id": cardID}).ToSql()
	if err != nil {
		return postgres.MapError(err, "card", cardID)
	}

	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "card", cardID)
	}
	return nil
}
