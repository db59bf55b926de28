package middleware

import "net/http"

// Methods and headers advertised on every response.
const (
	AllowedMethods = "GET, OPTIONS"
	AllowedHeaders = "Content-Type, X-Request-Id"
)

// CORSHeaders stamps the permissive CORS headers on every response, including
// errors and requests that carry no Origin.
func CORSHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", AllowedHeaders)
		h.Set("Access-Control-Allow-Methods", AllowedMethods)
		next.ServeHTTP(w, r)
	})
}
