// AngelaMos | 2026
// security.go

package middleware

import "net/http"

const hstsValue = "max-age=63072000; includeSubDomains"

// SecurityHeaders attaches baseline browser-hardening headers to every
// response. The CSP value comes from configuration; HSTS is only meaningful
// over TLS, so it is limited to production deployments.
func SecurityHeaders(csp string, production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if csp != "" {
				h.Set("Content-Security-Policy", csp)
			}

			if production {
				h.Set("Strict-Transport-Security", hstsValue)
			}

			next.ServeHTTP(w, r)
		})
	}
}
