package domain

import "strings"

// trailing punctuation stripped from each token
const tokenTrailingCutset = " \t\n\r.,;:!?"

// ParseTokens splits free-text synonym/antonym fields into atomic terms.
// It splits on newlines, commas, and semicolons, trims each piece, strips
// trailing punctuation, and discards empty results. First-appearance order
// is preserved and duplicates are kept: dedup, when needed, happens at the
// link-resolution step, case-insensitively.
func ParseTokens(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ',' || r == ';'
	})

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t == "" {
			continue
		}
		t = strings.TrimRight(t, tokenTrailingCutset)
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// umlautReplacer transliterates German letters before slugging, matching
// the de_DE slugs the host CMS generates for its permalinks.
var umlautReplacer = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "ß", "ss",
)

// Slugify converts a word title to its URL slug form: lowercase,
// German transliteration, non-alphanumeric runs collapsed to single
// dashes. Returns "" when nothing slug-worthy remains.
func Slugify(title string) string {
	s := umlautReplacer.Replace(strings.ToLower(strings.TrimSpace(title)))

	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

// NormalizeListText prepares a raw synonym/antonym field for storage:
// line endings are unified to \n and the whole text is trimmed.
func NormalizeListText(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	return strings.TrimSpace(raw)
}
