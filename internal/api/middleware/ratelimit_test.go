package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoginLimiterAllowsUpToLimit(t *testing.T) {
	t.Parallel()

	limiter := NewLoginLimiter(3, time.Minute)
	handler := limiter.Limit(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code, "attempt %d should pass", i+1)
	}

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
}

func TestLoginLimiterKeysByClientIP(t *testing.T) {
	t.Parallel()

	limiter := NewLoginLimiter(1, time.Minute)
	handler := limiter.Limit(okHandler())

	first := httptest.NewRequest("POST", "/api/auth/login", nil)
	first.RemoteAddr = "192.0.2.1:1234"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, first)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// Same IP, different source port: still the same client.
	sameIP := httptest.NewRequest("POST", "/api/auth/login", nil)
	sameIP.RemoteAddr = "192.0.2.1:9999"
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, sameIP)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)

	// A different IP gets its own window.
	other := httptest.NewRequest("POST", "/api/auth/login", nil)
	other.RemoteAddr = "192.0.2.2:1234"
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, other)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	t.Parallel()

	limiter := NewLoginLimiter(1, 50*time.Millisecond)
	handler := limiter.Limit(okHandler())

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "192.0.2.1:1234"

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)

	// After the window elapses the counter entry expires and the client
	// starts fresh.
	time.Sleep(80 * time.Millisecond)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestLoginLimiterConcurrentAttempts(t *testing.T) {
	t.Parallel()

	const attempts = 20
	limiter := NewLoginLimiter(5, time.Minute)
	handler := limiter.Limit(okHandler())

	var wg sync.WaitGroup
	codes := make([]int, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest("POST", "/api/auth/login", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)
			codes[i] = recorder.Code
		}(i)
	}
	wg.Wait()

	allowed := 0
	for _, code := range codes {
		if code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 5, allowed, "exactly the limit must pass, regardless of interleaving")
}
