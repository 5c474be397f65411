package middleware

import (
	"crypto/subtle"
	"net/http"

	"plantdb/pkg/common"

	"go.uber.org/zap"
)

// APIKey enforces the x-api-key header on mutating routes. An empty
// configured key disables the check, which is the local development mode.
func APIKey(key string, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("x-api-key")
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				logger.Warn("Rejected request with invalid API key",
					zap.String("path", r.URL.Path),
					zap.String("remoteAddr", r.RemoteAddr),
				)
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
