package middleware

import (
	"net/http"
	"slices"
	"strings"
)

const preflightMaxAge = "600"

// CORS answers browser cross-origin checks for the generation endpoints.
// With no allowed origins every origin is accepted with a wildcard and no
// credentials. Otherwise only listed origins are echoed back, and a preflight
// from any other origin is refused with 403.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			allowed := allowAll || slices.Contains(allowedOrigins, origin)

			h := w.Header()
			switch {
			case allowAll:
				h.Set("Access-Control-Allow-Origin", "*")
			case origin != "" && allowed:
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if origin != "" && !allowed {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, "+RequestIDHeader)
			h.Set("Access-Control-Max-Age", preflightMaxAge)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
