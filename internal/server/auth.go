package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"dupecheck/internal/logging"
)

// requireToken guards next with the configured bearer token. With no token
// configured every request passes.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	if s.token == "" {
		return next
	}
	want := []byte(s.token)
	return func(w http.ResponseWriter, r *http.Request) {
		got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			s.logger.Warn("rejected unauthenticated request",
				logging.String("path", r.URL.Path),
				logging.String("remote", r.RemoteAddr),
			)
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}
