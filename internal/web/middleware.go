package web

import (
	"net/http"
	"strings"

	"github.com/darc-project/darc/internal/requester"
)

const (
	// tokenCookie holds the access token returned by signup or login
	tokenCookie = "token"
	// sessionCookie identifies the dashboard state of one browser
	sessionCookie = "darc_session"

	authHeaderPrefix = "Bearer "
)

// cors allows the /api endpoints to be called from other origins
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withSessionToken forwards the caller's token to the backend when session
// auth is configured
func withSessionToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requester.WithSessionToken(r.Context(), extractToken(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken reads the token cookie, falling back to a Bearer header
func extractToken(r *http.Request) string {
	if c, err := r.Cookie(tokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, authHeaderPrefix) {
		return strings.TrimPrefix(authHeader, authHeaderPrefix)
	}
	return ""
}

func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
