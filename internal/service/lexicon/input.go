package lexicon

import (
	"encoding/json"
	"sort"

	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// The submitted tree arrives as a JSON object keyed by form row index.
// Keys carry no meaning beyond write order; entries that fail to decode
// are dropped rather than failing the whole request, matching the skip
// semantics of the reconciliation pass.

type submissionPayload struct {
	Title      string                     `json:"title"`
	Attributes map[string]string          `json:"attributes"`
	Meanings   map[string]json.RawMessage `json:"meanings"`
}

type meaningPayload struct {
	ID                int64                      `json:"id"`
	Order             int                        `json:"order"`
	Gloss             string                     `json:"gloss"`
	UsageNote         string                     `json:"usage_note"`
	Synonyms          string                     `json:"synonyms"`
	Antonyms          string                     `json:"antonyms"`
	GlossTranslations map[string]string          `json:"gloss_translations"`
	Cards             map[string]json.RawMessage `json:"cards"`
}

type cardPayload struct {
	ID           int64             `json:"id"`
	Order        int               `json:"order"`
	ImageRef     int64             `json:"image_ref"`
	Sentence     string            `json:"sentence"`
	Translations map[string]string `json:"translations"`
}

// ParseSubmission decodes a submitted word tree. A missing or null
// "meanings" object yields a submission with no meanings, which SaveWord
// treats as "delete everything". Malformed member entries are skipped.
func ParseSubmission(data []byte) (*domain.WordSubmission, error) {
	var payload submissionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, domain.NewValidationError("body", "malformed JSON")
	}

	sub := &domain.WordSubmission{
		Title:      payload.Title,
		Attributes: payload.Attributes,
	}
	if len(payload.Meanings) == 0 {
		return sub, nil
	}

	for _, key := range sortedKeys(payload.Meanings) {
		var mp meaningPayload
		if err := json.Unmarshal(payload.Meanings[key], &mp); err != nil {
			continue
		}

		draft := domain.MeaningDraft{
			ID:                mp.ID,
			Order:             mp.Order,
			Gloss:             mp.Gloss,
			UsageNote:         mp.UsageNote,
			Synonyms:          mp.Synonyms,
			Antonyms:          mp.Antonyms,
			GlossTranslations: mp.GlossTranslations,
		}

		for _, cardKey := range sortedKeys(mp.Cards) {
			var cp cardPayload
			if err := json.Unmarshal(mp.Cards[cardKey], &cp); err != nil {
				continue
			}
			draft.Cards = append(draft.Cards, domain.CardDraft{
				ID:           cp.ID,
				Order:        cp.Order,
				ImageRef:     cp.ImageRef,
				Sentence:     cp.Sentence,
				Translations: cp.Translations,
			})
		}

		sub.Meanings = append(sub.Meanings, draft)
	}

	return sub, nil
}

// sortedKeys orders form row keys deterministically: numeric keys by
// value, everything else lexically after them.
func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aOK := atoi(keys[i])
		b, bOK := atoi(keys[j])
		switch {
		case aOK && bOK:
			return a < b
		case aOK:
			return true
		case bOK:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
