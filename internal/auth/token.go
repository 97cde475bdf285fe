package auth

import (
	"net/http"
	"strings"
)

const (
	CookieName = "access_token"
	QueryParam = "token"
)

// ExtractAccessToken reads the bearer token from the access_token cookie,
// then the Authorization header, then the token query parameter. Browsers
// cannot set headers on a websocket handshake, hence the query fallback.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); token != "" {
			return token
		}
	}

	return r.URL.Query().Get(QueryParam)
}
