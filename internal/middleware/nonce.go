package middleware

import (
	"crypto/rand"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/templui/tracker/internal/ctxkeys"
)

// nonceSource is swapped in tests to simulate an entropy failure.
var nonceSource io.Reader = rand.Reader

// NonceMiddleware stores a fresh CSP nonce in the context twice: through
// templ.WithNonce for components and ctxkeys.WithNonce for SecurityHeaders.
// When no nonce can be generated the request still proceeds and the CSP
// simply blocks the page's inline script.
func NonceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce, err := generateNonce()
		if err != nil {
			slog.ErrorContext(r.Context(), "csp nonce generation failed", "error", err, "path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}

		ctx := templ.WithNonce(r.Context(), nonce)
		ctx = ctxkeys.WithNonce(ctx, nonce)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func generateNonce() (string, error) {
	b := make([]byte, 16)
	_, err := io.ReadFull(nonceSource, b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
