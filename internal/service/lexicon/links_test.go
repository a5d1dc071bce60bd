package lexicon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jelyk/wortschatz-backend/internal/domain"
)

func seedWordWithMeaning(t *testing.T, svc *Service, id int64, title, gloss string) {
	t.Helper()
	_, err := svc.SaveWord(context.Background(), id, &domain.WordSubmission{
		Title:    title,
		Meanings: []domain.MeaningDraft{{Order: 1, Gloss: gloss}},
	})
	require.NoError(t, err)
}

func TestResolveTokens_LinksOnlyWordsWithMeanings(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)

	seedWordWithMeaning(t, svc, 7, "Haufen", "eine ungeordnete Menge")
	// Registered but empty: a save with a title and no meanings.
	_, err := svc.SaveWord(context.Background(), 9, &domain.WordSubmission{Title: "Masse"})
	require.NoError(t, err)

	links, err := svc.ResolveTokens(context.Background(), []string{"Haufen", "Masse", "Stapel"})
	require.NoError(t, err)

	assert.Equal(t, "/words/7/view", links["Haufen"])
	assert.NotContains(t, links, "Masse", "a word without meanings stays plain text")
	assert.NotContains(t, links, "Stapel", "an unregistered token stays plain text")
}

func TestResolveTokens_MatchesCaseInsensitiveAndSlug(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)

	seedWordWithMeaning(t, svc, 7, "Große Menge", "viel")

	links, err := svc.ResolveTokens(context.Background(), []string{"große menge", "Grosse Menge"})
	require.NoError(t, err)

	assert.Equal(t, "/words/7/view", links["große menge"], "lowercased title match")
	assert.Equal(t, "/words/7/view", links["Grosse Menge"], "slug match")
}

func TestResolveTokens_OneExistenceCheckPerWord(t *testing.T) {
	f := newFakeStore()
	svc := newTestService(f)

	seedWordWithMeaning(t, svc, 7, "Haufen", "eine ungeordnete Menge")

	f.countByWordCalls = 0
	_, err := svc.ResolveTokens(context.Background(), []string{"Haufen", "haufen", "HAUFEN"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.countByWordCalls, "duplicate tokens share one existence check")
}

func TestResolveTokens_Empty(t *testing.T) {
	svc := newTestService(newFakeStore())

	links, err := svc.ResolveTokens(context.Background(), []string{"  ", ""})
	require.NoError(t, err)
	assert.Nil(t, links)
}
