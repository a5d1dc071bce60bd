package config

import (
	"fmt"
	"strings"

	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Lexicon.validate(); err != nil {
		return fmt.Errorf("lexicon: %w", err)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range (got %d)", c.Server.Port)
	}

	return nil
}

func (l *LexiconConfig) validate() error {
	base := domain.NormalizeLang(l.BaseLang)
	if base == "" {
		return fmt.Errorf("base_lang %q is not a valid language code", l.BaseLang)
	}
	l.BaseLang = base

	langs, err := ParseLangs(l.LangsRaw)
	if err != nil {
		return fmt.Errorf("langs: %w", err)
	}
	if len(langs) == 0 {
		return fmt.Errorf("langs must list at least one recognized language")
	}
	for _, lang := range langs {
		if lang == base {
			return fmt.Errorf("base_lang %q must not be listed in langs", base)
		}
	}
	l.Langs = langs

	if l.MaxMeaningsPerWord <= 0 {
		return fmt.Errorf("max_meanings_per_word must be > 0 (got %d)", l.MaxMeaningsPerWord)
	}
	if l.MaxCardsPerMeaning <= 0 {
		return fmt.Errorf("max_cards_per_meaning must be > 0 (got %d)", l.MaxCardsPerMeaning)
	}

	if !strings.Contains(l.WordLinkPattern, "%d") {
		return fmt.Errorf("word_link_pattern must contain a %%d placeholder (got %q)", l.WordLinkPattern)
	}

	return nil
}

// ParseLangs parses a comma-separated language list into canonicalized,
// de-duplicated codes, keeping list order. Invalid entries are an error
// rather than silently dropped: a typo in config should fail fast.
func ParseLangs(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	langs := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		lang := domain.NormalizeLang(p)
		if lang == "" {
			return nil, fmt.Errorf("invalid language code %q", p)
		}
		if seen[lang] {
			return nil, fmt.Errorf("duplicate language code %q", lang)
		}
		seen[lang] = true
		langs = append(langs, lang)
	}

	return langs, nil
}
