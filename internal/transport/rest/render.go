package rest

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jelyk/wortschatz-backend/internal/domain"
	"github.com/jelyk/wortschatz-backend/internal/service/lexicon"
)

// LinkResolver maps cross-reference tokens (synonym and antonym words)
// to link targets in one batch. The returned map contains only the
// tokens that resolve; everything else renders as plain text.
type LinkResolver interface {
	ResolveTokens(ctx context.Context, tokens []string) (map[string]string, error)
}

// NoLinks is a LinkResolver that never links.
type NoLinks struct{}

func (NoLinks) ResolveTokens(context.Context, []string) (map[string]string, error) {
	return nil, nil
}

// ImageResolver maps a stored attachment id to a display URL.
type ImageResolver interface {
	ResolveURL(ctx context.Context, attachmentID int64) (string, error)
}

// ViewHandler renders the read-only HTML view of a word.
type ViewHandler struct {
	svc    lexiconService
	links  LinkResolver
	images ImageResolver
	log    *slog.Logger
}

// NewViewHandler creates a ViewHandler.
func NewViewHandler(svc lexiconService, links LinkResolver, images ImageResolver, logger *slog.Logger) *ViewHandler {
	return &ViewHandler{
		svc:    svc,
		links:  links,
		images: images,
		log:    logger.With("handler", "view"),
	}
}

// German ordinals for meaning headings; past the list we fall back to
// "N. Bedeutung".
var ordinals = []string{
	"Erste", "Zweite", "Dritte", "Vierte", "Fünfte",
	"Sechste", "Siebte", "Achte", "Neunte", "Zehnte",
}

func meaningHeading(pos int) string {
	if pos <= len(ordinals) {
		return ordinals[pos-1] + " Bedeutung"
	}
	return fmt.Sprintf("%d. Bedeutung", pos)
}

type viewData struct {
	WordID     int64
	Langs      []string
	Attributes []attrViewData
	Meanings   []meaningViewData
}

type attrViewData struct {
	Label string
	Value string
}

type meaningViewData struct {
	Heading      string
	Gloss        string
	UsageNote    string
	Synonyms     []tokenViewData
	Antonyms     []tokenViewData
	Translations []lexicon.TranslationView
	Cards        []cardViewData
}

type cardViewData struct {
	Sentence     string
	ImageURL     string
	Translations []lexicon.TranslationView
}

type tokenViewData struct {
	Text string
	URL  string
}

var viewTmpl = template.Must(template.New("word").Parse(`<article class="word-view" data-word-id="{{.WordID}}">
{{- if .Attributes}}
<dl class="attributes">
{{- range .Attributes}}
<dt>{{.Label}}</dt><dd>{{.Value}}</dd>
{{- end}}
</dl>
{{- end}}
{{- range .Meanings}}
<section class="meaning">
<h3>{{.Heading}}</h3>
<p class="gloss">{{.Gloss}}</p>
{{- if .UsageNote}}
<p class="usage-note">{{.UsageNote}}</p>
{{- end}}
{{- range .Translations}}
<span class="translation" data-lang="{{.Lang}}"{{if .Pending}} data-pending="1"{{end}}>{{.Text}}</span>
{{- end}}
{{- if .Synonyms}}
<p class="synonyms">Synonyme:
{{- range .Synonyms}}
{{if .URL}}<a class="token" href="{{.URL}}">{{.Text}}</a>{{else}}<span class="token">{{.Text}}</span>{{end}}
{{- end}}
</p>
{{- end}}
{{- if .Antonyms}}
<p class="antonyms">Antonyme:
{{- range .Antonyms}}
{{if .URL}}<a class="token" href="{{.URL}}">{{.Text}}</a>{{else}}<span class="token">{{.Text}}</span>{{end}}
{{- end}}
</p>
{{- end}}
{{- range .Cards}}
<div class="card">
{{- if .ImageURL}}
<img src="{{.ImageURL}}" alt="">
{{- end}}
<p class="sentence">{{.Sentence}}</p>
{{- range .Translations}}
<span class="translation" data-lang="{{.Lang}}"{{if .Pending}} data-pending="1"{{end}}>{{.Text}}</span>
{{- end}}
</div>
{{- end}}
</section>
{{- end}}
</article>
`))

// View handles GET /words/{id}/view.
func (h *ViewHandler) View(w http.ResponseWriter, r *http.Request) {
	wordID, ok := wordIDFromPath(w, r)
	if !ok {
		return
	}

	view, err := h.svc.ProjectWord(r.Context(), wordID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "projection failed",
			slog.Int64("word_id", wordID),
			slog.Any("error", err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data, err := h.buildViewData(r.Context(), view)
	if err != nil {
		h.log.ErrorContext(r.Context(), "view assembly failed",
			slog.Int64("word_id", wordID),
			slog.Any("error", err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := viewTmpl.Execute(&buf, data); err != nil {
		h.log.ErrorContext(r.Context(), "template failed", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *ViewHandler) buildViewData(ctx context.Context, view lexicon.WordView) (viewData, error) {
	data := viewData{WordID: view.WordID, Langs: h.svc.Langs()}

	// Grammatical forms are shown only when the word type recognizes
	// them, so stale attributes of a retyped word stay hidden.
	if wt, ok := domain.ResolveWordType(view.Attributes[domain.AttrTypeKey]); ok {
		for _, field := range domain.FieldSetFor(wt) {
			if value := strings.TrimSpace(view.Attributes[field.Key]); value != "" {
				data.Attributes = append(data.Attributes, attrViewData{Label: field.Label, Value: value})
			}
		}
	}

	var tokens []string
	for _, m := range view.Meanings {
		tokens = append(tokens, m.SynonymTokens...)
		tokens = append(tokens, m.AntonymTokens...)
	}
	var links map[string]string
	if len(tokens) > 0 {
		var err error
		if links, err = h.links.ResolveTokens(ctx, tokens); err != nil {
			return data, fmt.Errorf("resolve tokens: %w", err)
		}
	}

	for i, m := range view.Meanings {
		md := meaningViewData{
			Heading:      meaningHeading(i + 1),
			Gloss:        m.Gloss,
			UsageNote:    m.UsageNote,
			Translations: m.Translations,
			Synonyms:     tokenViews(m.SynonymTokens, links),
			Antonyms:     tokenViews(m.AntonymTokens, links),
		}

		for _, c := range m.Cards {
			cd := cardViewData{
				Sentence:     c.Sentence,
				Translations: c.Translations,
			}
			if c.ImageRef > 0 {
				url, err := h.images.ResolveURL(ctx, c.ImageRef)
				if err != nil {
					// A broken media service should not take the page
					// down; the card renders without its image.
					h.log.WarnContext(ctx, "image resolve failed",
						slog.Int64("attachment_id", c.ImageRef),
						slog.Any("error", err),
					)
				}
				cd.ImageURL = url
			}
			md.Cards = append(md.Cards, cd)
		}

		data.Meanings = append(data.Meanings, md)
	}

	return data, nil
}

func tokenViews(tokens []string, links map[string]string) []tokenViewData {
	var out []tokenViewData
	for _, token := range tokens {
		if strings.TrimSpace(token) == "" {
			continue
		}
		out = append(out, tokenViewData{Text: token, URL: links[token]})
	}
	return out
}
