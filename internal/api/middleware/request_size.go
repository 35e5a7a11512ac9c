package middleware

import "net/http"

// MaxRequestBody caps request body size; all API payloads are small JSON
// documents.
const MaxRequestBody = 1 << 20 // 1 MB

func RequestSize() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBody)
			}
			next.ServeHTTP(w, r)
		})
	}
}
