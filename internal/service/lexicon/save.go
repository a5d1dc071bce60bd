package lexicon

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// SaveStats counts the entities affected by one reconciliation pass.
type SaveStats struct {
	MeaningsInserted int
	MeaningsUpdated  int
	MeaningsDeleted  int
	CardsInserted    int
	CardsUpdated     int
	CardsDeleted     int
}

// Total returns the number of affected entities.
func (s SaveStats) Total() int {
	return s.MeaningsInserted + s.MeaningsUpdated + s.MeaningsDeleted +
		s.CardsInserted + s.CardsUpdated + s.CardsDeleted
}

// SaveWord reconciles one submitted meaning/card/translation tree against
// the stored rows of a word. The whole pass runs inside a single
// transaction: any persistence failure aborts with no partial effect.
//
// A nil submission (or one with no meanings) deletes every meaning of the
// word, cascading. Submitted entries that fail the minimum-content rule
// are skipped silently; an existing row such an entry shadows is deleted
// at sweep time because it was never marked kept. A submitted id that
// does not match an existing row of this word means "insert new" — stale
// client state is tolerated, never an error.
//
// The submission's title and attributes ride along in the same
// transaction; see syncWordMeta.
func (s *Service) SaveWord(ctx context.Context, wordID int64, sub *domain.WordSubmission) (SaveStats, error) {
	var stats SaveStats

	if wordID <= 0 {
		return stats, domain.NewValidationError("word_id", "must be a positive id")
	}

	if err := s.validateLimits(sub); err != nil {
		return stats, err
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.syncWordMeta(txCtx, wordID, sub); err != nil {
			return err
		}
		if sub == nil || len(sub.Meanings) == 0 {
			return s.deleteAllMeanings(txCtx, wordID, &stats)
		}
		return s.reconcile(txCtx, wordID, sub, &stats)
	})
	if err != nil {
		return SaveStats{}, err
	}

	s.log.InfoContext(ctx, "word saved",
		slog.Int64("word_id", wordID),
		slog.Int("affected", stats.Total()),
	)

	return stats, nil
}

// validateLimits rejects submissions that exceed the configured tree size
// before any row is touched. Only entries that would actually be
// persisted count against the limits.
func (s *Service) validateLimits(sub *domain.WordSubmission) error {
	if sub == nil {
		return nil
	}

	meaningCount := 0
	for i := range sub.Meanings {
		d := sub.Meanings[i]
		if strings.TrimSpace(d.Gloss) == "" {
			continue
		}
		meaningCount++

		cardCount := 0
		for j := range d.Cards {
			c := d.Cards[j]
			if strings.TrimSpace(c.Sentence) == "" && c.ImageRef <= 0 {
				continue
			}
			cardCount++
		}
		if cardCount > s.cfg.MaxCardsPerMeaning {
			return domain.NewValidationError("cards", fmt.Sprintf("limit exceeded (%d)", s.cfg.MaxCardsPerMeaning))
		}
	}
	if meaningCount > s.cfg.MaxMeaningsPerWord {
		return domain.NewValidationError("meanings", fmt.Sprintf("limit exceeded (%d)", s.cfg.MaxMeaningsPerWord))
	}

	return nil
}

// syncWordMeta applies the submission parts that live outside the
// meaning tree: the registry title and the word attributes. A non-empty
// title refreshes the cross-reference registry. Attributes are applied
// key by key in sorted order: recognized keys are set when the value is
// non-empty and deleted when it is blank; unrecognized keys are dropped,
// matching the sanitize-or-skip model of the tree itself. The type tag
// is stored in its canonical form.
func (s *Service) syncWordMeta(ctx context.Context, wordID int64, sub *domain.WordSubmission) error {
	if sub == nil {
		return nil
	}

	if title := strings.TrimSpace(sub.Title); title != "" {
		ref := domain.WordRef{ID: wordID, Title: title, Slug: domain.Slugify(title)}
		if err := s.words.Upsert(ctx, ref); err != nil {
			return fmt.Errorf("register word title: %w", err)
		}
	}

	keys := make([]string, 0, len(sub.Attributes))
	for key := range sub.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := strings.TrimSpace(sub.Attributes[key])
		key = strings.ToLower(strings.TrimSpace(key))
		if !domain.RecognizedAttributeKey(key) {
			continue
		}

		if key == domain.AttrTypeKey && value != "" {
			wt, ok := domain.ResolveWordType(value)
			if !ok {
				continue
			}
			value = string(wt)
		}

		if value == "" {
			if err := s.attributes.Delete(ctx, wordID, key); err != nil {
				return fmt.Errorf("delete attribute %s: %w", key, err)
			}
			continue
		}
		if err := s.attributes.Set(ctx, wordID, key, value); err != nil {
			return fmt.Errorf("set attribute %s: %w", key, err)
		}
	}

	return nil
}

// reconcile runs the three-level kept/deleted pool algorithm for one word.
func (s *Service) reconcile(ctx context.Context, wordID int64, sub *domain.WordSubmission, stats *SaveStats) error {
	existing, err := s.meanings.ListIDsByWord(ctx, wordID)
	if err != nil {
		return fmt.Errorf("list existing meanings: %w", err)
	}

	existingSet := make(map[int64]bool, len(existing))
	for _, id := range existing {
		existingSet[id] = true
	}
	kept := make(map[int64]bool, len(sub.Meanings))

	for i := range sub.Meanings {
		draft := &sub.Meanings[i]
		draft.Sanitize()

		// Skip rule: an empty gloss means "not submitted". The entry is
		// not inserted and not marked kept, so an existing meaning it
		// shadows falls through to the sweep below.
		if draft.Empty() {
			continue
		}

		meaningID, inserted, err := s.writeMeaning(ctx, wordID, draft, existingSet)
		if err != nil {
			return err
		}
		if inserted {
			stats.MeaningsInserted++
		} else {
			stats.MeaningsUpdated++
		}
		kept[meaningID] = true

		if err := s.syncGlossTranslations(ctx, meaningID, draft.GlossTranslations); err != nil {
			return err
		}

		if err := s.reconcileCards(ctx, meaningID, draft.Cards, stats); err != nil {
			return err
		}
	}

	// Sweep: every existing meaning not marked kept is deleted with full
	// cascade, card translations first so no orphan survives the pass.
	for _, id := range existing {
		if kept[id] {
			continue
		}
		if err := s.deleteMeaningCascade(ctx, id); err != nil {
			return err
		}
		stats.MeaningsDeleted++
	}

	return nil
}

// writeMeaning resolves the identity of one draft and writes it: update
// when a positive submitted id matches an existing meaning of this word,
// insert otherwise. Returns the meaning id and whether it was inserted.
func (s *Service) writeMeaning(ctx context.Context, wordID int64, draft *domain.MeaningDraft, existingSet map[int64]bool) (int64, bool, error) {
	m := domain.Meaning{
		ID:        draft.ID,
		WordID:    wordID,
		Order:     draft.Order,
		Gloss:     draft.Gloss,
		UsageNote: draft.UsageNote,
		Synonyms:  draft.Synonyms,
		Antonyms:  draft.Antonyms,
	}

	if draft.ID > 0 && existingSet[draft.ID] {
		if err := s.meanings.Update(ctx, m); err != nil {
			return 0, false, fmt.Errorf("update meaning %d: %w", draft.ID, err)
		}
		return draft.ID, false, nil
	}

	id, err := s.meanings.Insert(ctx, m)
	if err != nil {
		return 0, false, fmt.Errorf("insert meaning: %w", err)
	}
	return id, true, nil
}

// syncGlossTranslations applies the delete-on-empty rule: for every
// recognized language, non-empty submitted text is upserted as a manual
// row and empty text deletes any existing row. Submitted keys are
// canonicalized, so a legacy "UA" entry lands under "uk".
func (s *Service) syncGlossTranslations(ctx context.Context, meaningID int64, submitted map[string]string) error {
	canon := make(map[string]string, len(submitted))
	for lang, text := range submitted {
		lang = domain.NormalizeLang(lang)
		if lang == "" {
			continue
		}
		canon[lang] = strings.TrimSpace(text)
	}

	for _, lang := range s.cfg.Langs {
		text := canon[lang]
		if text != "" {
			if err := s.glosses.Upsert(ctx, meaningID, domain.GlossField, lang, text, domain.StatusManual, domain.SourceManual); err != nil {
				return fmt.Errorf("upsert gloss translation %s: %w", lang, err)
			}
			continue
		}
		if err := s.glosses.Delete(ctx, meaningID, domain.GlossField, lang); err != nil {
			return fmt.Errorf("delete gloss translation %s: %w", lang, err)
		}
	}

	return nil
}

// reconcileCards runs the same kept/deleted pool algorithm one level
// down, for the cards of a single meaning.
func (s *Service) reconcileCards(ctx context.Context, meaningID int64, drafts []domain.CardDraft, stats *SaveStats) error {
	existing, err := s.cards.ListIDsByMeaning(ctx, meaningID)
	if err != nil {
		return fmt.Errorf("list existing cards: %w", err)
	}

	existingSet := make(map[int64]bool, len(existing))
	for _, id := range existing {
		existingSet[id] = true
	}
	kept := make(map[int64]bool, len(drafts))

	for i := range drafts {
		draft := &drafts[i]
		draft.Sanitize()

		// Skip rule: no sentence and no image means "not submitted".
		if draft.Empty() {
			continue
		}

		cardID, inserted, err := s.writeCard(ctx, meaningID, draft, existingSet)
		if err != nil {
			return err
		}
		if inserted {
			stats.CardsInserted++
		} else {
			stats.CardsUpdated++
		}
		kept[cardID] = true

		if err := s.syncCardTranslations(ctx, cardID, draft.Translations); err != nil {
			return err
		}
	}

	for _, id := range existing {
		if kept[id] {
			continue
		}
		if err := s.deleteCardCascade(ctx, id); err != nil {
			return err
		}
		stats.CardsDeleted++
	}

	return nil
}

// writeCard resolves the identity of one card draft and writes it.
func (s *Service) writeCard(ctx context.Context, meaningID int64, draft *domain.CardDraft, existingSet map[int64]bool) (int64, bool, error) {
	c := domain.Card{
		ID:        draft.ID,
		MeaningID: meaningID,
		Order:     draft.Order,
		ImageRef:  draft.ImageRef,
		Sentence:  draft.Sentence,
	}

	if draft.ID > 0 && existingSet[draft.ID] {
		if err := s.cards.Update(ctx, c); err != nil {
			return 0, false, fmt.Errorf("update card %d: %w", draft.ID, err)
		}
		return draft.ID, false, nil
	}

	id, err := s.cards.Insert(ctx, c)
	if err != nil {
		return 0, false, fmt.Errorf("insert card: %w", err)
	}
	return id, true, nil
}

// syncCardTranslations applies the blank-on-empty rule: once a card
// exists, a row exists for every recognized language. Non-empty text is
// upserted as manual; empty text is upserted as an empty pending row —
// the pending rows are the work queue of the external batch translator.
func (s *Service) syncCardTranslations(ctx context.Context, cardID int64, submitted map[string]string) error {
	canon := make(map[string]string, len(submitted))
	for lang, text := range submitted {
		lang = domain.NormalizeLang(lang)
		if lang == "" {
			continue
		}
		canon[lang] = strings.TrimSpace(text)
	}

	for _, lang := range s.cfg.Langs {
		text := canon[lang]
		if text != "" {
			if err := s.translations.Upsert(ctx, cardID, lang, text, domain.StatusManual, domain.SourceManual); err != nil {
				return fmt.Errorf("upsert card translation %s: %w", lang, err)
			}
			continue
		}
		if err := s.translations.Upsert(ctx, cardID, lang, "", domain.StatusPending, domain.SourceNone); err != nil {
			return fmt.Errorf("upsert pending card translation %s: %w", lang, err)
		}
	}

	return nil
}

// deleteCardCascade removes a card and its translations, translations first.
func (s *Service) deleteCardCascade(ctx context.Context, cardID int64) error {
	if err := s.translations.DeleteByCard(ctx, cardID); err != nil {
		return fmt.Errorf("delete translations of card %d: %w", cardID, err)
	}
	if err := s.cards.Delete(ctx, cardID); err != nil {
		return fmt.Errorf("delete card %d: %w", cardID, err)
	}
	return nil
}

// deleteMeaningCascade removes a meaning with everything it owns: its
// cards' translations, its cards, its gloss translations, then the row.
func (s *Service) deleteMeaningCascade(ctx context.Context, meaningID int64) error {
	cardIDs, err := s.cards.ListIDsByMeaning(ctx, meaningID)
	if err != nil {
		return fmt.Errorf("list cards of meaning %d: %w", meaningID, err)
	}
	for _, cardID := range cardIDs {
		if err := s.deleteCardCascade(ctx, cardID); err != nil {
			return err
		}
	}
	if err := s.glosses.DeleteByMeaning(ctx, meaningID); err != nil {
		return fmt.Errorf("delete gloss translations of meaning %d: %w", meaningID, err)
	}
	if err := s.meanings.Delete(ctx, meaningID); err != nil {
		return fmt.Errorf("delete meaning %d: %w", meaningID, err)
	}
	return nil
}

// deleteAllMeanings handles the absent-tree submission: every meaning of
// the word is deleted with full cascade.
func (s *Service) deleteAllMeanings(ctx context.Context, wordID int64, stats *SaveStats) error {
	ids, err := s.meanings.ListIDsByWord(ctx, wordID)
	if err != nil {
		return fmt.Errorf("list meanings: %w", err)
	}
	for _, id := range ids {
		if err := s.deleteMeaningCascade(ctx, id); err != nil {
			return err
		}
		stats.MeaningsDeleted++
	}
	return nil
}
