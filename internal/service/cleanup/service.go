// Package cleanup reports on and purges word attributes carried over
// from the old flat storage format.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

type attributeRepo interface {
	CountLegacy(ctx context.Context) (map[string]int, error)
	DeleteLegacy(ctx context.Context) (int64, error)
}

// Service implements the legacy-attribute housekeeping logic.
type Service struct {
	log   *slog.Logger
	attrs attributeRepo
}

func NewService(logger *slog.Logger, attrs attributeRepo) *Service {
	return &Service{
		log:   logger.With("service", "cleanup"),
		attrs: attrs,
	}
}

// KeyCount is one legacy attribute key with its row count.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Report lists the legacy attribute keys still present, largest count
// first and key as the tiebreak.
func (s *Service) Report(ctx context.Context) ([]KeyCount, error) {
	counts, err := s.attrs.CountLegacy(ctx)
	if err != nil {
		return nil, fmt.Errorf("count legacy attributes: %w", err)
	}

	out := make([]KeyCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, KeyCount{Key: key, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// Purge deletes every legacy attribute row and returns how many were
// removed.
func (s *Service) Purge(ctx context.Context) (int64, error) {
	n, err := s.attrs.DeleteLegacy(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete legacy attributes: %w", err)
	}
	s.log.InfoContext(ctx, "legacy attributes purged", slog.Int64("removed", n))
	return n, nil
}

// LogReport writes the current legacy counts to the log. Wired as the
// scheduled job so drift shows up without anyone asking.
func (s *Service) LogReport(ctx context.Context) {
	report, err := s.Report(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "legacy attribute report failed", slog.Any("error", err))
		return
	}
	if len(report) == 0 {
		s.log.InfoContext(ctx, "no legacy attributes left")
		return
	}
	total := 0
	for _, kc := range report {
		total += kc.Count
	}
	s.log.InfoContext(ctx, "legacy attributes present",
		slog.Int("keys", len(report)),
		slog.Int("rows", total),
	)
}
