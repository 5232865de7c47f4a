// AngelaMos | 2026
// cors.go

package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelamos/habitflow/internal/config"
)

// CORS applies the configured cross-origin policy. Preflight OPTIONS requests
// are answered directly: with the computed allow headers when the request
// origin is on the allow-list, with 403 when it is not. Non-preflight
// responses get the allow-origin and credentials headers attached.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	// Allow-lists are derived once; the config never changes after startup.
	methods := strings.Join(cfg.MethodList(), ", ")
	headers := strings.Join(cfg.HeaderList(), ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if r.Method == http.MethodOptions &&
				r.Header.Get("Access-Control-Request-Method") != "" {
				handlePreflight(w, cfg, origin, methods, headers, maxAge)
				return
			}

			if origin != "" && cfg.AllowsOrigin(origin) {
				setAllowOrigin(w, cfg, origin)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func handlePreflight(
	w http.ResponseWriter,
	cfg config.CORSConfig,
	origin, methods, headers, maxAge string,
) {
	if origin != "" && !cfg.AllowsOrigin(origin) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	setAllowOrigin(w, cfg, origin)

	h := w.Header()
	h.Set("Access-Control-Allow-Methods", methods)
	h.Set("Access-Control-Allow-Headers", headers)
	h.Set("Access-Control-Max-Age", maxAge)

	w.WriteHeader(http.StatusNoContent)
}

func setAllowOrigin(
	w http.ResponseWriter,
	cfg config.CORSConfig,
	origin string,
) {
	h := w.Header()

	switch {
	case origin != "":
		h.Set("Access-Control-Allow-Origin", origin)
		h.Add("Vary", "Origin")
	case cfg.AllowsAllOrigins():
		h.Set("Access-Control-Allow-Origin", "*")
	}

	if cfg.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}
