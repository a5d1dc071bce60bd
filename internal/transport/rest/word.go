package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jelyk/wortschatz-backend/internal/domain"
	"github.com/jelyk/wortschatz-backend/internal/service/lexicon"
)

// lexiconService defines the minimal interface needed by WordHandler.
type lexiconService interface {
	SaveWord(ctx context.Context, wordID int64, sub *domain.WordSubmission) (lexicon.SaveStats, error)
	ProjectWord(ctx context.Context, wordID int64) (lexicon.WordView, error)
	Langs() []string
	BaseLang() string
}

// WordHandler serves the word content REST endpoints.
type WordHandler struct {
	svc lexiconService
	log *slog.Logger
}

// NewWordHandler creates a WordHandler.
func NewWordHandler(svc lexiconService, logger *slog.Logger) *WordHandler {
	return &WordHandler{svc: svc, log: logger.With("handler", "word")}
}

type saveResponse struct {
	WordID           int64 `json:"wordId"`
	MeaningsInserted int   `json:"meaningsInserted"`
	MeaningsUpdated  int   `json:"meaningsUpdated"`
	MeaningsDeleted  int   `json:"meaningsDeleted"`
	CardsInserted    int   `json:"cardsInserted"`
	CardsUpdated     int   `json:"cardsUpdated"`
	CardsDeleted     int   `json:"cardsDeleted"`
}

type wordResponse struct {
	WordID     int64             `json:"wordId"`
	BaseLang   string            `json:"baseLang"`
	Langs      []string          `json:"langs"`
	Meanings   []meaningResponse `json:"meanings"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type meaningResponse struct {
	ID           int64                 `json:"id"`
	Order        int                   `json:"order"`
	Gloss        string                `json:"gloss"`
	UsageNote    string                `json:"usageNote,omitempty"`
	Synonyms     []string              `json:"synonyms,omitempty"`
	Antonyms     []string              `json:"antonyms,omitempty"`
	Translations []translationResponse `json:"translations,omitempty"`
	Cards        []cardResponse        `json:"cards,omitempty"`
}

type cardResponse struct {
	ID           int64                 `json:"id"`
	Order        int                   `json:"order"`
	ImageRef     int64                 `json:"imageRef,omitempty"`
	Sentence     string                `json:"sentence"`
	Translations []translationResponse `json:"translations,omitempty"`
}

type translationResponse struct {
	Lang    string `json:"lang"`
	Text    string `json:"text"`
	Pending bool   `json:"pending,omitempty"`
}

// Get handles GET /words/{id}: the full read projection as JSON.
func (h *WordHandler) Get(w http.ResponseWriter, r *http.Request) {
	wordID, ok := wordIDFromPath(w, r)
	if !ok {
		return
	}

	view, err := h.svc.ProjectWord(r.Context(), wordID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toWordResponse(view, h.svc.BaseLang(), h.svc.Langs()))
}

// Save handles PUT /words/{id}: one reconciliation pass over the
// submitted tree. All-or-nothing: on failure no change was applied.
func (h *WordHandler) Save(w http.ResponseWriter, r *http.Request) {
	wordID, ok := wordIDFromPath(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	sub, err := lexicon.ParseSubmission(body)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	stats, err := h.svc.SaveWord(r.Context(), wordID, sub)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, saveResponse{
		WordID:           wordID,
		MeaningsInserted: stats.MeaningsInserted,
		MeaningsUpdated:  stats.MeaningsUpdated,
		MeaningsDeleted:  stats.MeaningsDeleted,
		CardsInserted:    stats.CardsInserted,
		CardsUpdated:     stats.CardsUpdated,
		CardsDeleted:     stats.CardsDeleted,
	})
}

func wordIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid word id")
		return 0, false
	}
	return id, true
}

func (h *WordHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "conflict")
	default:
		h.log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "save failed, no changes applied")
	}
}

func toWordResponse(view lexicon.WordView, baseLang string, langs []string) wordResponse {
	resp := wordResponse{
		WordID:     view.WordID,
		BaseLang:   baseLang,
		Langs:      langs,
		Meanings:   make([]meaningResponse, 0, len(view.Meanings)),
		Attributes: view.Attributes,
	}

	for _, m := range view.Meanings {
		mr := meaningResponse{
			ID:           m.ID,
			Order:        m.Order,
			Gloss:        m.Gloss,
			UsageNote:    m.UsageNote,
			Synonyms:     m.SynonymTokens,
			Antonyms:     m.AntonymTokens,
			Translations: toTranslationResponses(m.Translations),
		}
		for _, c := range m.Cards {
			mr.Cards = append(mr.Cards, cardResponse{
				ID:           c.ID,
				Order:        c.Order,
				ImageRef:     c.ImageRef,
				Sentence:     c.Sentence,
				Translations: toTranslationResponses(c.Translations),
			})
		}
		resp.Meanings = append(resp.Meanings, mr)
	}

	return resp
}

func toTranslationResponses(views []lexicon.TranslationView) []translationResponse {
	out := make([]translationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, translationResponse{
			Lang:    v.Lang,
			Text:    v.Text,
			Pending: v.Pending,
		})
	}
	return out
}
