package middleware

import (
	"context"
	"net/http"

	"photobooth/internal/services/session"
)

// SessionCookie names the cookie that keys the per-tab gallery state.
const SessionCookie = "booth_session"

type ctxKey struct{}

// SessionMiddleware makes sure every request carries a session id, minting
// a new one on first contact.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
			id = cookie.Value
		}
		if id == "" {
			id = session.NewID()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// SessionID returns the request's session id, or "" when the middleware
// did not run.
func SessionID(r *http.Request) string {
	if id, ok := r.Context().Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
