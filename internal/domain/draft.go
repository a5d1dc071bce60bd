package domain

import "strings"

// WordSubmission is the typed form of one editing submission for a word:
// an ordered tree of meaning drafts with nested card drafts. It is built
// by the transport boundary so the reconciliation engine never handles
// untyped maps. A nil submission (or nil Meanings) means "delete every
// meaning for this word".
//
// Title registers the word in the cross-reference registry; empty leaves
// the registration unchanged. Attributes are applied key by key: an empty
// value deletes the stored attribute, a nil map touches nothing.
type WordSubmission struct {
	Title      string
	Attributes map[string]string
	Meanings   []MeaningDraft
}

// MeaningDraft is one submitted meaning. ID 0 (or any id that does not
// match an existing row of the word) means "insert new".
type MeaningDraft struct {
	ID                int64
	Order             int
	Gloss             string
	UsageNote         string
	Synonyms          string
	Antonyms          string
	GlossTranslations map[string]string
	Cards             []CardDraft
}

// CardDraft is one submitted card under a meaning.
type CardDraft struct {
	ID           int64
	Order        int
	ImageRef     int64
	Sentence     string
	Translations map[string]string
}

// Sanitize trims text fields and unifies list-text line endings in place.
// Malformed values are coerced, never rejected: sanitize-or-skip is the
// whole error model at this level.
func (d *MeaningDraft) Sanitize() {
	d.Gloss = strings.TrimSpace(d.Gloss)
	d.UsageNote = strings.TrimSpace(d.UsageNote)
	d.Synonyms = NormalizeListText(d.Synonyms)
	d.Antonyms = NormalizeListText(d.Antonyms)
	for i := range d.Cards {
		d.Cards[i].Sanitize()
	}
}

// Empty reports whether the draft fails the minimum-content rule and must
// be skipped (which deletes an existing meaning it shadows).
func (d *MeaningDraft) Empty() bool {
	return strings.TrimSpace(d.Gloss) == ""
}

// Sanitize trims the card's sentence and clamps a negative image ref.
func (c *CardDraft) Sanitize() {
	c.Sentence = strings.TrimSpace(c.Sentence)
	if c.ImageRef < 0 {
		c.ImageRef = 0
	}
}

// Empty reports whether the card fails the minimum-content rule: no
// sentence and no image reference.
func (c *CardDraft) Empty() bool {
	return strings.TrimSpace(c.Sentence) == "" && c.ImageRef == 0
}
