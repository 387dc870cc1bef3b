package rest

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authenticate enforces the configured bearer token on API routes.
// With no token configured the API is open, which suits the local,
// single-operator deployment this daemon targets.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(s.token)) != 1 {
			respondErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid bearer token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
