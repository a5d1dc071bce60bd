package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jelyk/wortschatz-backend/internal/domain"
	"github.com/jelyk/wortschatz-backend/internal/service/lexicon"
)

type lexiconServiceMock struct {
	saveFn    func(ctx context.Context, wordID int64, sub *domain.WordSubmission) (lexicon.SaveStats, error)
	projectFn func(ctx context.Context, wordID int64) (lexicon.WordView, error)
}

func (m *lexiconServiceMock) SaveWord(ctx context.Context, wordID int64, sub *domain.WordSubmission) (lexicon.SaveStats, error) {
	return m.saveFn(ctx, wordID, sub)
}

func (m *lexiconServiceMock) ProjectWord(ctx context.Context, wordID int64) (lexicon.WordView, error) {
	return m.projectFn(ctx, wordID)
}

func (m *lexiconServiceMock) Langs() []string { return []string{"en", "uk"} }
func (m *lexiconServiceMock) BaseLang() string { return "de" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serveWord(h http.HandlerFunc, method, path string, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(method+" /words/{id}", h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestWordGet_ReturnsProjection(t *testing.T) {
	t.Parallel()

	svc := &lexiconServiceMock{
		projectFn: func(_ context.Context, wordID int64) (lexicon.WordView, error) {
			return lexicon.WordView{
				WordID: wordID,
				Meanings: []lexicon.MeaningView{
					{
						ID:            3,
						Order:         1,
						Gloss:         "Bedeutung",
						SynonymTokens: []string{"Anzahl"},
						Cards: []lexicon.CardView{
							{ID: 4, Order: 1, Sentence: "Ein Satz.", Translations: []lexicon.TranslationView{
								{Lang: "en", Text: "A sentence."},
							}},
						},
					},
				},
			}, nil
		},
	}
	h := NewWordHandler(svc, discardLogger())

	rec := serveWord(h.Get, http.MethodGet, "/words/12", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp wordResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.WordID != 12 {
		t.Errorf("expected wordId 12, got %d", resp.WordID)
	}
	if resp.BaseLang != "de" {
		t.Errorf("expected baseLang de, got %q", resp.BaseLang)
	}
	if len(resp.Meanings) != 1 || resp.Meanings[0].Gloss != "Bedeutung" {
		t.Errorf("unexpected meanings: %+v", resp.Meanings)
	}
	if len(resp.Meanings[0].Cards) != 1 || resp.Meanings[0].Cards[0].Sentence != "Ein Satz." {
		t.Errorf("unexpected cards: %+v", resp.Meanings[0].Cards)
	}
}

func TestWordGet_InvalidID(t *testing.T) {
	t.Parallel()

	h := NewWordHandler(&lexiconServiceMock{}, discardLogger())

	rec := serveWord(h.Get, http.MethodGet, "/words/abc", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestWordSave_Success(t *testing.T) {
	t.Parallel()

	var gotSub *domain.WordSubmission
	svc := &lexiconServiceMock{
		saveFn: func(_ context.Context, _ int64, sub *domain.WordSubmission) (lexicon.SaveStats, error) {
			gotSub = sub
			return lexicon.SaveStats{MeaningsInserted: 1, CardsInserted: 2}, nil
		},
	}
	h := NewWordHandler(svc, discardLogger())

	body := `{"title":"Menge","attributes":{"type":"substantiv"},"meanings":{"0":{"order":1,"gloss":"Bedeutung","cards":{"0":{"sentence":"Satz."},"1":{"sentence":"Noch einer."}}}}}`
	rec := serveWord(h.Save, http.MethodPut, "/words/5", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotSub == nil || len(gotSub.Meanings) != 1 {
		t.Fatalf("expected parsed submission with 1 meaning, got %+v", gotSub)
	}
	if gotSub.Title != "Menge" || gotSub.Attributes["type"] != "substantiv" {
		t.Errorf("expected title and attributes forwarded, got %+v", gotSub)
	}

	var resp saveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.MeaningsInserted != 1 || resp.CardsInserted != 2 {
		t.Errorf("unexpected stats: %+v", resp)
	}
}

func TestWordSave_MalformedBody(t *testing.T) {
	t.Parallel()

	h := NewWordHandler(&lexiconServiceMock{}, discardLogger())

	rec := serveWord(h.Save, http.MethodPut, "/words/5", `{"meanings":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestWordSave_ValidationError(t *testing.T) {
	t.Parallel()

	svc := &lexiconServiceMock{
		saveFn: func(context.Context, int64, *domain.WordSubmission) (lexicon.SaveStats, error) {
			return lexicon.SaveStats{}, domain.NewValidationError("meanings", "limit exceeded (50)")
		},
	}
	h := NewWordHandler(svc, discardLogger())

	rec := serveWord(h.Save, http.MethodPut, "/words/5", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestWordSave_PersistenceFailure(t *testing.T) {
	t.Parallel()

	svc := &lexiconServiceMock{
		saveFn: func(context.Context, int64, *domain.WordSubmission) (lexicon.SaveStats, error) {
			return lexicon.SaveStats{}, errors.New("tx aborted")
		},
	}
	h := NewWordHandler(svc, discardLogger())

	rec := serveWord(h.Save, http.MethodPut, "/words/5", `{}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no changes applied") {
		t.Errorf("expected all-or-nothing error message, got %q", rec.Body.String())
	}
}
