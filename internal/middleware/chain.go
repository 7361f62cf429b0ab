package middleware

import "net/http"

type Middleware func(http.Handler) http.Handler

// Chain wraps h so the middlewares run in the order given. Nil entries are
// skipped, which lets optional layers (a disabled rate limit) stay inline.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		h = middlewares[i](h)
	}
	return h
}
