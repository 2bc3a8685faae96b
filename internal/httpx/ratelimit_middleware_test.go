package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimitMiddleware(0.001, 2)
	handler := rl.Middleware(okHandler)

	send := func(method, addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/forms/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.1:1001").Code)

	w := send(http.MethodPost, "10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send(http.MethodGet, "10.0.0.1:1003").Code)
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.2:1000").Code)
}

func TestRateLimitMiddleware_Evict(t *testing.T) {
	rl := NewRateLimitMiddleware(1, 1)
	rl.getLimiter("10.0.0.1")
	rl.getLimiter("10.0.0.2")

	rl.evict(time.Now())
	assert.Len(t, rl.limiters, 2)

	rl.evict(time.Now().Add(10 * time.Minute))
	assert.Empty(t, rl.limiters)
}
