package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAPIKey(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{"valid key", "secret", "secret", http.StatusNoContent},
		{"wrong key", "secret", "nope", http.StatusUnauthorized},
		{"missing key", "secret", "", http.StatusUnauthorized},
		{"check disabled when unconfigured", "", "", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := APIKey(tt.configured, zap.NewNop())(next)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/plants", nil)
			if tt.provided != "" {
				req.Header.Set("x-api-key", tt.provided)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
