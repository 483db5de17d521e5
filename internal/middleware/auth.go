package middleware

import (
	"crypto/subtle"
	"net/http"
)

// tokenHeader carries the platform's shared secret on every webhook request.
const tokenHeader = "X-API-TOKEN"

// RequireToken rejects requests whose X-API-TOKEN header does not match the
// configured secret. An empty secret disables the check entirely; that is an
// explicit operator choice for trusted networks, not a fallback.
func RequireToken(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(tokenHeader)
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
