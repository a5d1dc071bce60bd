package domain

import "strings"

// BaseLang is the language card sentences and meaning glosses are written
// in. It is stored directly on the row, never as a translation, and must
// never appear in the recognized language list.
const BaseLang = "de"

// DefaultLangs is the ordered set of recognized translation languages.
// Ukrainian is canonically "uk" (not the legacy "ua").
var DefaultLangs = []string{"en", "uk", "ru", "tr", "ar", "pl", "ro", "fr", "es", "it"}

// legacy aliases mapped onto canonical codes
var langAliases = map[string]string{
	"ua": "uk",
}

// NormalizeLang canonicalizes a language code: lowercases, trims, strips
// any character outside [a-z0-9_-], and resolves legacy aliases. Returns
// "" for input that normalizes to nothing; callers must treat an empty
// result as "invalid, skip".
func NormalizeLang(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	code = b.String()

	if canonical, ok := langAliases[code]; ok {
		return canonical
	}
	return code
}

// LangLabel returns the display label for a language code (uppercased
// canonical code; "UA" therefore renders as "UK").
func LangLabel(code string) string {
	code = NormalizeLang(code)
	return strings.ToUpper(code)
}
