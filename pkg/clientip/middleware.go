package clientip

import "net/http"

// Middleware stores the client address in the request context. With no
// headers it trusts DefaultHeaders; pass the headers set by your proxy to
// trust those instead.
func Middleware(headers ...string) func(http.Handler) http.Handler {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithContext(r.Context(), FromRequest(r, headers...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
