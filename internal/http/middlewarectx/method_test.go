package middlewarectx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowMethod(t *testing.T) {
	mw := AllowMethod(http.MethodPost)

	tests := []struct {
		name     string
		method   string
		wantCode int
	}{
		{name: "post passes", method: http.MethodPost, wantCode: http.StatusOK},
		{name: "get rejected", method: http.MethodGet, wantCode: http.StatusMethodNotAllowed},
		{name: "put rejected", method: http.MethodPut, wantCode: http.StatusMethodNotAllowed},
		{name: "delete rejected", method: http.MethodDelete, wantCode: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/create-order", nil)
			w := httptest.NewRecorder()
			mw(okHandler(t)).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusMethodNotAllowed {
				assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
				assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
			}
		})
	}
}

func TestAllowMethod_BeforeRateLimit(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	h := AllowMethod(http.MethodPost)(RateLimitMiddleware(newNoopLoggerLimit(), limiter)(okHandler(t)))

	for range 5 {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify-payment", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/verify-payment", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify-payment", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
