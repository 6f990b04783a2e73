package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/onereel/onereel/internal/httputil"
)

type SecurityConfig struct {
	BaseURL string
	// StorageOrigin is where presigned video URLs point. When empty the
	// player may load media from any https origin.
	StorageOrigin string
}

func securityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	strictTransport := strings.HasPrefix(cfg.BaseURL, "https://")

	mediaSources := "'self' https:"
	if cfg.StorageOrigin != "" {
		mediaSources = "'self' " + cfg.StorageOrigin
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := httputil.NewNonce()
			ctx := httputil.WithNonce(r.Context(), nonce)

			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "SAMEORIGIN")

			csp := fmt.Sprintf(
				"default-src 'self'; media-src %s; script-src 'self' 'nonce-%s'; style-src 'self' 'nonce-%s'; frame-ancestors 'self';",
				mediaSources, nonce, nonce,
			)
			w.Header().Set("Content-Security-Policy", csp)

			if strictTransport {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
