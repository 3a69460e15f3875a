package services

import (
	"log"
	"net/http"

	goahttp "goa.design/goa/v3/http"

	"robolab/internal/util"
)

// AdminTokenMiddleware rejects requests whose header does not carry the
// admin secret. With no secret configured every request is rejected.
func AdminTokenMiddleware(verifier *util.TokenVerifier, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !verifier.Verify(r.Header.Get(header)) {
				log.Printf("[ADMIN] Unauthorized %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
				enc := goahttp.ResponseEncoder(r.Context(), w)
				w.WriteHeader(http.StatusUnauthorized)
				_ = enc.Encode(map[string]any{"ok": false, "error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
