package lexicon

import (
	"context"
	"fmt"
	"strings"

	"github.com/jelyk/wortschatz-backend/internal/domain"
)

// ResolveTokens maps cross-reference tokens (synonym/antonym words) to
// link targets. A token links when a registered word matches its
// lowercased text or its slug AND that word has at least one meaning;
// words without content stay plain text so readers never land on an
// empty page. The returned map is keyed by the original token strings
// and contains only the linkable ones.
//
// One registry query serves the whole batch, and meaning-existence
// checks go through a fresh ExistenceCache, so duplicate tokens cost
// one lookup per distinct word. The cache lives only for this call.
func (s *Service) ResolveTokens(ctx context.Context, tokens []string) (map[string]string, error) {
	titles := make([]string, 0, len(tokens))
	slugs := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))

	for _, token := range tokens {
		lower := strings.ToLower(strings.TrimSpace(token))
		if lower == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		titles = append(titles, lower)
		if slug := domain.Slugify(token); slug != "" {
			slugs = append(slugs, slug)
		}
	}
	if len(titles) == 0 {
		return nil, nil
	}

	refs, err := s.words.FindByTokens(ctx, titles, slugs)
	if err != nil {
		return nil, fmt.Errorf("find words for tokens: %w", err)
	}
	if len(refs) == 0 {
		return nil, nil
	}

	byTitle := make(map[string]domain.WordRef, len(refs))
	bySlug := make(map[string]domain.WordRef, len(refs))
	for _, ref := range refs {
		byTitle[strings.ToLower(ref.Title)] = ref
		if ref.Slug != "" {
			bySlug[ref.Slug] = ref
		}
	}

	cache := s.NewExistenceCache()
	links := make(map[string]string)

	for _, token := range tokens {
		lower := strings.ToLower(strings.TrimSpace(token))
		if lower == "" {
			continue
		}
		ref, ok := byTitle[lower]
		if !ok {
			ref, ok = bySlug[domain.Slugify(token)]
		}
		if !ok {
			continue
		}

		has, err := cache.Has(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("check word %d: %w", ref.ID, err)
		}
		if !has {
			continue
		}
		links[token] = fmt.Sprintf(s.cfg.WordLinkPattern, ref.ID)
	}

	return links, nil
}
