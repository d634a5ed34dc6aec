package middleware

import "net/http"

// MediaHeaders hardens responses that serve user uploaded files, so a crafted
// upload cannot be sniffed into HTML or run scripts in the API's origin.
func MediaHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; sandbox")
		h.Set("Cross-Origin-Resource-Policy", "cross-origin")
		next(w, r)
	}
}
