// Package media resolves attachment ids to displayable URLs. Images are
// stored by the host application's media service; cards only carry the
// attachment id.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jelyk/wortschatz-backend/internal/config"
)

// Resolver fetches attachment metadata from the host media service.
type Resolver struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewResolver creates a Resolver against the configured media service.
func NewResolver(cfg config.MediaConfig, logger *slog.Logger) *Resolver {
	return &Resolver{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "media"),
	}
}

type attachmentResponse struct {
	URL string `json:"url"`
}

// ResolveURL returns the display URL of one attachment. A missing
// attachment (HTTP 404) yields an empty URL and no error: a card whose
// image was deleted upstream still renders, just without the picture.
func (r *Resolver) ResolveURL(ctx context.Context, attachmentID int64) (string, error) {
	reqURL := fmt.Sprintf("%s/attachments/%d", r.baseURL, attachmentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("media: create request: %w", err)
	}

	resp, err := r.doWithRetry(ctx, req, attachmentID)
	if err != nil {
		r.log.ErrorContext(ctx, "media request failed",
			slog.Int64("attachment_id", attachmentID),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("media: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		r.log.WarnContext(ctx, "attachment missing upstream", slog.Int64("attachment_id", attachmentID))
		return "", nil
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("media: read body: %w", err)
	}

	var payload attachmentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("media: decode json: %w", err)
	}

	return payload.URL, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (r *Resolver) doWithRetry(ctx context.Context, req *http.Request, attachmentID int64) (*http.Response, error) {
	resp, err := r.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	r.log.WarnContext(ctx, "media retry",
		slog.Int64("attachment_id", attachmentID),
		slog.String("reason", reason),
	)

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(200 * time.Millisecond)

	return r.httpClient.Do(req)
}
