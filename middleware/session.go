package middleware

import (
	"context"
	"net/http"

	"centremart/session"
)

const (
	SessionHeader     = "X-Session-ID"
	SessionContextKey = contextKey("session")
)

// Session resolves the caller's browsing session and echoes its id back,
// so a caller without one learns the id it was assigned
func Session(registry *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := registry.Get(r.Header.Get(SessionHeader))
			w.Header().Set(SessionHeader, s.ID)
			ctx := context.WithValue(r.Context(), SessionContextKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the session attached by Session
func SessionFrom(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(SessionContextKey).(*session.Session)
	return s, ok
}
