package media

import (
	"context"
	"fmt"
)

// Static resolves attachment ids by formatting them into a URL pattern,
// for deployments that serve media from a predictable path and for
// tests. The pattern must contain one %d verb.
type Static struct {
	pattern string
}

// NewStatic creates a pattern-based resolver.
func NewStatic(pattern string) *Static {
	return &Static{pattern: pattern}
}

// ResolveURL formats the attachment id into the pattern. Never fails.
func (s *Static) ResolveURL(_ context.Context, attachmentID int64) (string, error) {
	return fmt.Sprintf(s.pattern, attachmentID), nil
}
