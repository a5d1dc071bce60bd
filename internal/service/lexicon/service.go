// Package lexicon implements the core lexical content logic: the
// three-level reconciliation of submitted meaning/card/translation trees
// against stored rows, and the denormalized read projection consumed by
// the edit form and the public renderer.
package lexicon

import (
	"context"
	"log/slog"

	"github.com/jelyk/wortschatz-backend/internal/config"
	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type meaningRepo interface {
	ListByWord(ctx context.Context, wordID int64) ([]domain.Meaning, error)
	ListIDsByWord(ctx context.Context, wordID int64) ([]int64, error)
	CountByWord(ctx context.Context, wordID int64) (int, error)
	Insert(ctx context.Context, m domain.Meaning) (int64, error)
	Update(ctx context.Context, m domain.Meaning) error
	Delete(ctx context.Context, meaningID int64) error
}

type cardRepo interface {
	ListByMeanings(ctx context.Context, meaningIDs []int64) ([]domain.Card, error)
	ListIDsByMeaning(ctx context.Context, meaningID int64) ([]int64, error)
	Insert(ctx context.Context, c domain.Card) (int64, error)
	Update(ctx context.Context, c domain.Card) error
	Delete(ctx context.Context, cardID int64) error
}

type cardTranslationRepo interface {
	Upsert(ctx context.Context, cardID int64, lang, text string, status domain.TranslationStatus, source domain.TranslationSource) error
	FetchByCards(ctx context.Context, cardIDs []int64) ([]domain.CardTranslation, error)
	DeleteByCard(ctx context.Context, cardID int64) error
}

type glossTranslationRepo interface {
	Upsert(ctx context.Context, meaningID int64, field, lang, text string, status domain.TranslationStatus, source domain.TranslationSource) error
	Delete(ctx context.Context, meaningID int64, field, lang string) error
	FetchByMeanings(ctx context.Context, meaningIDs []int64) ([]domain.GlossTranslation, error)
	DeleteByMeaning(ctx context.Context, meaningID int64) error
}

type attributeRepo interface {
	GetByWord(ctx context.Context, wordID int64) (map[string]string, error)
	Set(ctx context.Context, wordID int64, key, value string) error
	Delete(ctx context.Context, wordID int64, key string) error
}

type wordRepo interface {
	Upsert(ctx context.Context, ref domain.WordRef) error
	FindByTokens(ctx context.Context, titles, slugs []string) ([]domain.WordRef, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the lexicon business logic.
type Service struct {
	log          *slog.Logger
	cfg          config.LexiconConfig
	meanings     meaningRepo
	cards        cardRepo
	translations cardTranslationRepo
	glosses      glossTranslationRepo
	attributes   attributeRepo
	words        wordRepo
	tx           txManager
}

// NewService creates a new lexicon service. cfg.Langs must already be
// canonicalized (config.Load does this).
func NewService(
	logger *slog.Logger,
	cfg config.LexiconConfig,
	meanings meaningRepo,
	cards cardRepo,
	translations cardTranslationRepo,
	glosses glossTranslationRepo,
	attributes attributeRepo,
	words wordRepo,
	tx txManager,
) *Service {
	return &Service{
		log:          logger.With("service", "lexicon"),
		cfg:          cfg,
		meanings:     meanings,
		cards:        cards,
		translations: translations,
		glosses:      glosses,
		attributes:   attributes,
		words:        words,
		tx:           tx,
	}
}

// Langs returns the recognized translation languages in display order.
func (s *Service) Langs() []string {
	return s.cfg.Langs
}

// BaseLang returns the base sentence language.
func (s *Service) BaseLang() string {
	return s.cfg.BaseLang
}
