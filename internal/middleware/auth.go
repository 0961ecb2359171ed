package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Auth guards a route group behind a static bearer token.
func Auth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if strings.HasPrefix(strings.ToLower(header), "bearer ") {
				header = strings.TrimSpace(header[7:])
			}
			if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(token)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
