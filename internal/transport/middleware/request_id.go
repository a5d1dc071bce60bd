package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jelyk/wortschatz-backend/pkg/ctxutil"
)

// RequestIDHeader is the header used to propagate the request id.
const RequestIDHeader = "X-Request-Id"

// RequestID returns middleware that reuses an incoming request id or
// generates a fresh UUID, storing it in the context and echoing it in
// the response header.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
