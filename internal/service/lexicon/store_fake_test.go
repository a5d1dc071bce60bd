package lexicon

import (
	"context"
	"sort"
	"strings"

	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// fakeStore is an in-memory stand-in for the five repositories and the
// transaction manager. Ids are assigned from one monotonic sequence so
// ordering tests can rely on the id tiebreak.
type fakeStore struct {
	nextID     int64
	meanings   map[int64]domain.Meaning
	cards      map[int64]domain.Card
	cardTrans  map[cardTransKey]domain.CardTranslation
	glossTrans map[glossTransKey]domain.GlossTranslation
	attrs      map[int64]map[string]string
	words      map[int64]domain.WordRef

	countByWordCalls int
}

type cardTransKey struct {
	cardID int64
	lang   string
}

type glossTransKey struct {
	meaningID int64
	field     string
	lang      string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		meanings:   make(map[int64]domain.Meaning),
		cards:      make(map[int64]domain.Card),
		cardTrans:  make(map[cardTransKey]domain.CardTranslation),
		glossTrans: make(map[glossTransKey]domain.GlossTranslation),
		attrs:      make(map[int64]map[string]string),
		words:      make(map[int64]domain.WordRef),
	}
}

func (f *fakeStore) nextSeq() int64 {
	f.nextID++
	return f.nextID
}

// --- meaningRepo ---

func (f *fakeStore) ListByWord(_ context.Context, wordID int64) ([]domain.Meaning, error) {
	var out []domain.Meaning
	for _, m := range f.meanings {
		if m.WordID == wordID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStore) ListIDsByWord(ctx context.Context, wordID int64) ([]int64, error) {
	ms, _ := f.ListByWord(ctx, wordID)
	ids := make([]int64, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (f *fakeStore) CountByWord(ctx context.Context, wordID int64) (int, error) {
	f.countByWordCalls++
	ids, _ := f.ListIDsByWord(ctx, wordID)
	return len(ids), nil
}

func (f *fakeStore) Insert(_ context.Context, m domain.Meaning) (int64, error) {
	m.ID = f.nextSeq()
	f.meanings[m.ID] = m
	return m.ID, nil
}

func (f *fakeStore) Update(_ context.Context, m domain.Meaning) error {
	if _, ok := f.meanings[m.ID]; !ok {
		return domain.ErrNotFound
	}
	f.meanings[m.ID] = m
	return nil
}

func (f *fakeStore) Delete(_ context.Context, meaningID int64) error {
	if _, ok := f.meanings[meaningID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.meanings, meaningID)
	return nil
}

// cardStore and the translation stores wrap the same fakeStore so each
// fake satisfies exactly one private interface despite the shared
// method-name space.

type cardStore struct{ f *fakeStore }

func (c cardStore) ListByMeanings(_ context.Context, meaningIDs []int64) ([]domain.Card, error) {
	want := make(map[int64]bool, len(meaningIDs))
	for _, id := range meaningIDs {
		want[id] = true
	}
	var out []domain.Card
	for _, card := range c.f.cards {
		if want[card.MeaningID] {
			out = append(out, card)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeaningID != out[j].MeaningID {
			return out[i].MeaningID < out[j].MeaningID
		}
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (c cardStore) ListIDsByMeaning(ctx context.Context, meaningID int64) ([]int64, error) {
	cards, _ := c.ListByMeanings(ctx, []int64{meaningID})
	ids := make([]int64, 0, len(cards))
	for _, card := range cards {
		ids = append(ids, card.ID)
	}
	return ids, nil
}

func (c cardStore) Insert(_ context.Context, card domain.Card) (int64, error) {
	card.ID = c.f.nextSeq()
	c.f.cards[card.ID] = card
	return card.ID, nil
}

func (c cardStore) Update(_ context.Context, card domain.Card) error {
	if _, ok := c.f.cards[card.ID]; !ok {
		return domain.ErrNotFound
	}
	c.f.cards[card.ID] = card
	return nil
}

func (c cardStore) Delete(_ context.Context, cardID int64) error {
	if _, ok := c.f.cards[cardID]; !ok {
		return domain.ErrNotFound
	}
	delete(c.f.cards, cardID)
	return nil
}

type cardTransStore struct{ f *fakeStore }

func (s cardTransStore) Upsert(_ context.Context, cardID int64, lang, text string, status domain.TranslationStatus, source domain.TranslationSource) error {
	key := cardTransKey{cardID: cardID, lang: lang}
	row, ok := s.f.cardTrans[key]
	if !ok {
		row = domain.CardTranslation{ID: s.f.nextSeq(), CardID: cardID, Lang: lang}
	}
	row.Text, row.Status, row.Source = text, status, source
	s.f.cardTrans[key] = row
	return nil
}

func (s cardTransStore) FetchByCards(_ context.Context, cardIDs []int64) ([]domain.CardTranslation, error) {
	want := make(map[int64]bool, len(cardIDs))
	for _, id := range cardIDs {
		want[id] = true
	}
	var out []domain.CardTranslation
	for _, t := range s.f.cardTrans {
		if want[t.CardID] {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s cardTransStore) DeleteByCard(_ context.Context, cardID int64) error {
	for key := range s.f.cardTrans {
		if key.cardID == cardID {
			delete(s.f.cardTrans, key)
		}
	}
	return nil
}

type glossTransStore struct{ f *fakeStore }

func (s glossTransStore) Upsert(_ context.Context, meaningID int64, field, lang, text string, status domain.TranslationStatus, source domain.TranslationSource) error {
	key := glossTransKey{meaningID: meaningID, field: field, lang: lang}
	row, ok := s.f.glossTrans[key]
	if !ok {
		row = domain.GlossTranslation{ID: s.f.nextSeq(), MeaningID: meaningID, Field: field, Lang: lang}
	}
	row.Text, row.Status, row.Source = text, status, source
	s.f.glossTrans[key] = row
	return nil
}

func (s glossTransStore) Delete(_ context.Context, meaningID int64, field, lang string) error {
	delete(s.f.glossTrans, glossTransKey{meaningID: meaningID, field: field, lang: lang})
	return nil
}

func (s glossTransStore) FetchByMeanings(_ context.Context, meaningIDs []int64) ([]domain.GlossTranslation, error) {
	want := make(map[int64]bool, len(meaningIDs))
	for _, id := range meaningIDs {
		want[id] = true
	}
	var out []domain.GlossTranslation
	for _, t := range s.f.glossTrans {
		if want[t.MeaningID] {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s glossTransStore) DeleteByMeaning(_ context.Context, meaningID int64) error {
	for key := range s.f.glossTrans {
		if key.meaningID == meaningID {
			delete(s.f.glossTrans, key)
		}
	}
	return nil
}

type attrStore struct{ f *fakeStore }

func (s attrStore) GetByWord(_ context.Context, wordID int64) (map[string]string, error) {
	out := make(map[string]string, len(s.f.attrs[wordID]))
	for k, v := range s.f.attrs[wordID] {
		out[k] = v
	}
	return out, nil
}

func (s attrStore) Set(_ context.Context, wordID int64, key, value string) error {
	if s.f.attrs[wordID] == nil {
		s.f.attrs[wordID] = make(map[string]string)
	}
	s.f.attrs[wordID][key] = value
	return nil
}

func (s attrStore) Delete(_ context.Context, wordID int64, key string) error {
	delete(s.f.attrs[wordID], key)
	return nil
}

type wordStore struct{ f *fakeStore }

func (s wordStore) Upsert(_ context.Context, ref domain.WordRef) error {
	s.f.words[ref.ID] = ref
	return nil
}

func (s wordStore) FindByTokens(_ context.Context, titles, slugs []string) ([]domain.WordRef, error) {
	wantTitle := make(map[string]bool, len(titles))
	for _, t := range titles {
		wantTitle[t] = true
	}
	wantSlug := make(map[string]bool, len(slugs))
	for _, sl := range slugs {
		wantSlug[sl] = true
	}

	var out []domain.WordRef
	for _, ref := range s.f.words {
		if wantTitle[strings.ToLower(ref.Title)] || wantSlug[ref.Slug] {
			out = append(out, ref)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeTx struct{}

func (fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
