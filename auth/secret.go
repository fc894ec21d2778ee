package auth

import (
	"crypto/subtle"
	"net/http"
)

// SecretHeader carries the shared organizer secret on mutating requests.
const SecretHeader = "X-Admin-Secret"

// Verify checks the shared admin secret of a request in constant time.
// An empty configured secret rejects everything.
func Verify(r *http.Request, secret string) bool {
	if secret == "" {
		return false
	}
	provided := r.Header.Get(SecretHeader)
	return subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
}

// Middleware gates a route subtree behind the shared admin secret.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Verify(r, secret) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
