package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedRouter(limiter RateLimiter, config RateLimitConfig) http.Handler {
	r := gin.New()
	r.Use(RateLimit(limiter, config))
	r.GET("/concepts", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTokenBucket_AllowsBurstThenRejects(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, 3, 0)

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("client")
		require.True(t, allowed)
	}
	allowed, info := limiter.Allow("client")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 3, info.Limit)
}

func TestTokenBucket_KeysAreIndependent(t *testing.T) {
	limiter := NewTokenBucketLimiter(1, 1, 0)

	allowed, _ := limiter.Allow("a")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("a")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("b")
	assert.True(t, allowed)
}

func TestTokenBucket_Refills(t *testing.T) {
	limiter := NewTokenBucketLimiter(1000, 1, 0)

	allowed, _ := limiter.Allow("client")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("client")
	require.False(t, allowed)

	time.Sleep(5 * time.Millisecond)
	allowed, _ = limiter.Allow("client")
	assert.True(t, allowed)
}

func TestRateLimit_ExceededReturns429(t *testing.T) {
	config := DefaultRateLimitConfig()
	router := rateLimitedRouter(NewTokenBucketLimiter(1, 1, 0), config)

	first := get(router, "/concepts")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := get(router, "/concepts")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_SkipsProbePaths(t *testing.T) {
	config := DefaultRateLimitConfig()
	router := rateLimitedRouter(NewTokenBucketLimiter(1, 1, 0), config)

	for i := 0; i < 5; i++ {
		rec := get(router, "/healthz")
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

//Personal.AI order the ending
