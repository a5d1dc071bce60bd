package domain

import "strings"

// WordType tags a word with its grammatical category. Types come from the
// host's category taxonomy; unknown tags fall back to the shared fields.
type WordType string

const (
	TypeSubstantiv WordType = "substantiv"
	TypeVerb       WordType = "verb"
	TypeAdjektiv   WordType = "adjektiv"
)

// AttributeField describes one word attribute the presentation layer may
// render for a given word type.
type AttributeField struct {
	Key   string
	Label string
}

// fieldSets maps a word type to its applicable attribute fields. The
// reconciliation engine is type-agnostic; only presentation consults this.
var fieldSets = map[WordType][]AttributeField{
	TypeSubstantiv: {
		{Key: "singular", Label: "Singular"},
		{Key: "plural", Label: "Plural"},
	},
	TypeVerb: {
		{Key: "infinitiv", Label: "Infinitiv"},
		{Key: "praesens", Label: "Präsens (er ...)"},
		{Key: "praeteritum", Label: "Präteritum (er ...)"},
		{Key: "perfekt", Label: "Perfekt"},
	},
	TypeAdjektiv: {
		{Key: "positiv", Label: "Positiv"},
		{Key: "komparativ", Label: "Komparativ"},
		{Key: "superlativ", Label: "am ... (Superlativ)"},
	},
}

// typeAliases maps host category slugs onto word types ("verben" is the
// plural category name used by the site).
var typeAliases = map[string]WordType{
	"substantiv": TypeSubstantiv,
	"verb":       TypeVerb,
	"verben":     TypeVerb,
	"adjektiv":   TypeAdjektiv,
}

// AttrTypeKey is the word attribute that stores the grammatical
// category tag.
const AttrTypeKey = "type"

var attributeKeys = func() map[string]bool {
	keys := map[string]bool{AttrTypeKey: true}
	for _, fields := range fieldSets {
		for _, f := range fields {
			keys[f.Key] = true
		}
	}
	return keys
}()

// RecognizedAttributeKey reports whether a submitted attribute key is one
// the system stores: the type tag or any grammatical field of any word
// type. Everything else is dropped at the save boundary.
func RecognizedAttributeKey(key string) bool {
	return attributeKeys[strings.ToLower(strings.TrimSpace(key))]
}

// ResolveWordType maps a host category slug to a WordType. The second
// return value is false for unrecognized slugs.
func ResolveWordType(slug string) (WordType, bool) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(slug))]
	return t, ok
}

// FieldSetFor returns the attribute fields applicable to the given word
// types, in declaration order, without duplicates.
func FieldSetFor(types ...WordType) []AttributeField {
	seen := make(map[string]bool)
	var out []AttributeField
	for _, t := range types {
		for _, f := range fieldSets[t] {
			if seen[f.Key] {
				continue
			}
			seen[f.Key] = true
			out = append(out, f)
		}
	}
	return out
}
