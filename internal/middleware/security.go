package middleware

import (
	"net/http"

	"github.com/templui/tracker/internal/ctxkeys"
)

// SecurityHeaders sets browser hardening headers. Must run after
// NonceMiddleware so the CSP can allow the per-request script nonce.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scriptSrc := "'self'"
		if nonce := ctxkeys.Nonce(r.Context()); nonce != "" {
			scriptSrc += " 'nonce-" + nonce + "'"
		}

		h := w.Header()
		h.Set("Content-Security-Policy",
			"default-src 'self'; script-src "+scriptSrc+"; style-src 'self'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'; base-uri 'self'")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}
