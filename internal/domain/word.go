package domain

import "time"

// TranslationStatus marks whether a translation row carries user-entered
// text or is still waiting for the batch translation process.
type TranslationStatus string

const (
	StatusManual  TranslationStatus = "manual"
	StatusPending TranslationStatus = "pending"
)

// TranslationSource records where a translation's text came from.
// Empty means "no source yet" (pending rows).
type TranslationSource string

const (
	SourceManual TranslationSource = "manual"
	SourceNone   TranslationSource = ""
)

// GlossField is the meaning-translation field key for the gloss text.
// Kept as a column so further translatable meaning fields can share the
// same table without a migration.
const GlossField = "gloss"

// Meaning is one sense of a word, owned by an external content item
// (the word) identified by an opaque integer id.
//
// A meaning with an empty Gloss is never persisted: it is treated as
// "not submitted" and shadows any existing row into deletion.
type Meaning struct {
	ID        int64
	WordID    int64
	Order     int
	Gloss     string
	UsageNote string
	Synonyms  string
	Antonyms  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Card is one example sentence (plus optional image attachment) that
// illustrates a meaning. A card with an empty sentence and no image
// reference is never persisted.
type Card struct {
	ID        int64
	MeaningID int64
	Order     int
	ImageRef  int64 // attachment id in the host media store, 0 = none
	Sentence  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WordRef is the registry entry of a word in the host CMS: the title and
// URL slug under which cross-reference tokens can find it. Registered on
// every save, looked up in batch by the link resolver.
type WordRef struct {
	ID    int64
	Title string
	Slug  string
}

// CardTranslation is one per-language translation row of a card,
// unique per (card_id, lang). Once a card exists, a row exists for
// every recognized language: empty text is stored as a pending row,
// never deleted, because the external batch translator scans for
// status=pending rows as its work queue.
type CardTranslation struct {
	ID        int64
	CardID    int64
	Lang      string
	Text      string
	Status    TranslationStatus
	Source    TranslationSource
	UpdatedAt time.Time
}

// GlossTranslation is one per-language translation of a meaning field,
// unique per (meaning_id, field, lang). Unlike card translations these
// are optional manual annotations with no external consumer, so absence
// is represented by row absence: empty submitted text deletes the row.
type GlossTranslation struct {
	ID        int64
	MeaningID int64
	Field     string
	Lang      string
	Text      string
	Status    TranslationStatus
	Source    TranslationSource
	UpdatedAt time.Time
}

// LegacyAttributePrefix marks word attributes carried over from the old
// flat storage format. The cleanup reporter counts and purges them.
const LegacyAttributePrefix = "legacy_"
