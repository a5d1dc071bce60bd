package lexicon

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// WordView is the denormalized read projection of one word's lexical
// tree. Slices preserve storage order: order column ascending, id
// ascending as the tiebreak, so two rows sharing an order value keep a
// stable insertion-time sequence.
type WordView struct {
	WordID     int64
	Meanings   []MeaningView
	Attributes map[string]string
}

// MeaningView is one meaning with its translations and cards.
type MeaningView struct {
	ID            int64
	Order         int
	Gloss         string
	UsageNote     string
	Synonyms      string
	Antonyms      string
	SynonymTokens []string
	AntonymTokens []string
	Translations  []TranslationView
	Cards         []CardView
}

// CardView is one card with its per-language translations.
type CardView struct {
	ID           int64
	Order        int
	ImageRef     int64
	Sentence     string
	Translations []TranslationView
}

// TranslationView is one translated text in one language. Rows whose
// text is blank after trimming are filtered out of the projection; the
// edit form fetches raw rows through the repository instead.
type TranslationView struct {
	Lang    string
	Label   string
	Text    string
	Status  domain.TranslationStatus
	Pending bool
}

// ProjectWord assembles the full read projection for one word with four
// queries: meanings, cards, card translations, gloss translations, plus
// the attribute map. A word with no meanings yields an empty view, not
// an error.
func (s *Service) ProjectWord(ctx context.Context, wordID int64) (WordView, error) {
	view := WordView{WordID: wordID}

	if wordID <= 0 {
		return view, domain.NewValidationError("word_id", "must be a positive id")
	}

	meanings, err := s.meanings.ListByWord(ctx, wordID)
	if err != nil {
		return view, fmt.Errorf("list meanings: %w", err)
	}

	attrs, err := s.attributes.GetByWord(ctx, wordID)
	if err != nil {
		return view, fmt.Errorf("load attributes: %w", err)
	}
	view.Attributes = attrs

	if len(meanings) == 0 {
		return view, nil
	}

	meaningIDs := lo.Map(meanings, func(m domain.Meaning, _ int) int64 { return m.ID })

	cards, err := s.cards.ListByMeanings(ctx, meaningIDs)
	if err != nil {
		return view, fmt.Errorf("list cards: %w", err)
	}
	cardIDs := lo.Map(cards, func(c domain.Card, _ int) int64 { return c.ID })

	cardTrans := []domain.CardTranslation{}
	if len(cardIDs) > 0 {
		cardTrans, err = s.translations.FetchByCards(ctx, cardIDs)
		if err != nil {
			return view, fmt.Errorf("fetch card translations: %w", err)
		}
	}

	glossTrans, err := s.glosses.FetchByMeanings(ctx, meaningIDs)
	if err != nil {
		return view, fmt.Errorf("fetch gloss translations: %w", err)
	}

	cardsByMeaning := lo.GroupBy(cards, func(c domain.Card) int64 { return c.MeaningID })
	transByCard := lo.GroupBy(cardTrans, func(t domain.CardTranslation) int64 { return t.CardID })
	glossByMeaning := lo.GroupBy(glossTrans, func(t domain.GlossTranslation) int64 { return t.MeaningID })

	view.Meanings = make([]MeaningView, 0, len(meanings))
	for _, m := range meanings {
		mv := MeaningView{
			ID:            m.ID,
			Order:         m.Order,
			Gloss:         m.Gloss,
			UsageNote:     m.UsageNote,
			Synonyms:      m.Synonyms,
			Antonyms:      m.Antonyms,
			SynonymTokens: domain.ParseTokens(m.Synonyms),
			AntonymTokens: domain.ParseTokens(m.Antonyms),
			Translations:  s.glossViews(glossByMeaning[m.ID]),
		}

		for _, c := range cardsByMeaning[m.ID] {
			mv.Cards = append(mv.Cards, CardView{
				ID:           c.ID,
				Order:        c.Order,
				ImageRef:     c.ImageRef,
				Sentence:     c.Sentence,
				Translations: s.cardViews(transByCard[c.ID]),
			})
		}

		view.Meanings = append(view.Meanings, mv)
	}

	return view, nil
}

// glossViews converts gloss translation rows to views in configured
// language order, skipping blank texts.
func (s *Service) glossViews(rows []domain.GlossTranslation) []TranslationView {
	byLang := lo.KeyBy(rows, func(t domain.GlossTranslation) string { return t.Lang })

	var out []TranslationView
	for _, lang := range s.cfg.Langs {
		t, ok := byLang[lang]
		if !ok || strings.TrimSpace(t.Text) == "" {
			continue
		}
		out = append(out, TranslationView{
			Lang:   lang,
			Label:  domain.LangLabel(lang),
			Text:   t.Text,
			Status: t.Status,
		})
	}
	return out
}

// cardViews converts card translation rows to views in configured
// language order. Blank texts are filtered; pending rows with text are
// shown and flagged so the renderer can mark machine output awaiting
// review.
func (s *Service) cardViews(rows []domain.CardTranslation) []TranslationView {
	byLang := lo.KeyBy(rows, func(t domain.CardTranslation) string { return t.Lang })

	var out []TranslationView
	for _, lang := range s.cfg.Langs {
		t, ok := byLang[lang]
		if !ok || strings.TrimSpace(t.Text) == "" {
			continue
		}
		out = append(out, TranslationView{
			Lang:    lang,
			Label:   domain.LangLabel(lang),
			Text:    t.Text,
			Status:  t.Status,
			Pending: t.Status == domain.StatusPending,
		})
	}
	return out
}

// HasMeanings reports whether a word carries at least one meaning. The
// renderer uses it to decide which cross-reference tokens become links.
func (s *Service) HasMeanings(ctx context.Context, wordID int64) (bool, error) {
	n, err := s.meanings.CountByWord(ctx, wordID)
	if err != nil {
		return false, fmt.Errorf("count meanings: %w", err)
	}
	return n > 0, nil
}

// ExistenceCache memoizes HasMeanings lookups for the lifetime of one
// request. Rendering a page resolves the same token words repeatedly;
// the cache collapses those into one query per word. Not safe for
// concurrent use: build one per request.
type ExistenceCache struct {
	svc   *Service
	known map[int64]bool
}

// NewExistenceCache creates an empty per-request cache.
func (s *Service) NewExistenceCache() *ExistenceCache {
	return &ExistenceCache{svc: s, known: make(map[int64]bool)}
}

// Has reports whether the word has meanings, hitting storage at most
// once per word id.
func (c *ExistenceCache) Has(ctx context.Context, wordID int64) (bool, error) {
	if v, ok := c.known[wordID]; ok {
		return v, nil
	}
	v, err := c.svc.HasMeanings(ctx, wordID)
	if err != nil {
		return false, err
	}
	c.known[wordID] = v
	return v, nil
}
