package middleware

import (
	"net/http"
	"strings"

	"github.com/templui/tracker/internal/ctxkeys"
	"github.com/templui/tracker/internal/flash"
)

// Flash moves a pending one-shot message from its cookie into the request
// context. Only page loads consume it; posts and static assets leave the
// cookie alone so the message survives to the page after the redirect.
func Flash(store *flash.Store) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || strings.HasPrefix(r.URL.Path, "/assets/") {
				next.ServeHTTP(w, r)
				return
			}

			msg := store.Pop(w, r)
			if msg == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithFlash(r.Context(), msg)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
