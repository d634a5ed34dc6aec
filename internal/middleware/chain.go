package middleware

import "net/http"

// Chain applies middleware in the order given, the first one being outermost.
//
// Example:
//
//	handler := Chain(mux,
//	    Recover,        // Executes first
//	    RequestLogging, // Executes second
//	    CORS(origins),  // Executes third
//	)
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
