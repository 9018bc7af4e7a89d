package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ErikLozanov/job-application-tracker/internal/constants"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthenticator struct {
	tokens map[string]uint64
}

func (f fakeAuthenticator) Authenticate(ctx context.Context, token string) (uint64, error) {
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid token")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", RequireAuth(fakeAuthenticator{tokens: map[string]uint64{"good": 12}}), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": userID})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	router := newAuthRouter()

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"id":12}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}

func TestGetUserID_Types(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)

	c.Set(constants.ContextKeyUserID, uint(3))
	id, ok := GetUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), id)

	c.Set(constants.ContextKeyUserID, -1)
	_, ok = GetUserID(c)
	assert.False(t, ok)

	c.Set(constants.ContextKeyUserID, "3")
	_, ok = GetUserID(c)
	assert.False(t, ok)
}

func setupTestLimiter(t *testing.T, limit int) (*RateLimiter, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(client, limit, time.Hour)
	rl.now = func() time.Time { return now }
	return rl, mr, &now
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	rl, _, now := setupTestLimiter(t, 2)
	ctx := context.Background()

	allowed, remaining, _, err := rl.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	*now = now.Add(10 * time.Minute)
	allowed, remaining, _, err = rl.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, resetAt, err := rl.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC), resetAt)

	allowed, _, _, err = rl.Allow(ctx, "user:2")
	require.NoError(t, err)
	assert.True(t, allowed, "keys are limited independently")

	*now = time.Date(2024, 1, 1, 13, 0, 1, 0, time.UTC)
	allowed, _, _, err = rl.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, allowed, "oldest request left the window")
}

func TestRateLimiter_ResetAtIsUTC(t *testing.T) {
	rl, _, _ := setupTestLimiter(t, 1)
	zone := time.FixedZone("UTC+9", 9*60*60)
	rl.now = func() time.Time { return time.Date(2024, 1, 1, 21, 0, 0, 0, zone) }
	ctx := context.Background()

	_, _, _, err := rl.Allow(ctx, "user:1")
	require.NoError(t, err)

	allowed, _, resetAt, err := rl.Allow(ctx, "user:1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.UTC, resetAt.Location())
	assert.Equal(t, time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC), resetAt)
}

func TestRateLimiter_ConcurrentRequests(t *testing.T) {
	rl, _, _ := setupTestLimiter(t, 5)
	rl.now = time.Now
	ctx := context.Background()

	var wg sync.WaitGroup
	var allowedCount atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _, _, err := rl.Allow(ctx, "user:1")
			if err == nil && allowed {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), allowedCount.Load())
}

func newRateLimitedRouter(rl *RateLimiter, userID uint64) *gin.Engine {
	r := gin.New()
	r.POST("/ai/cover-letter", func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}, RateLimit(rl, "ai"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRateLimit_Middleware(t *testing.T) {
	rl, _, _ := setupTestLimiter(t, 1)
	router := newRateLimitedRouter(rl, 5)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ai/cover-letter", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ai/cover-letter", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"code":"RATE_LIMITED"`)
}

func TestRateLimit_RedisDownAllows(t *testing.T) {
	rl, mr, _ := setupTestLimiter(t, 1)
	mr.Close()
	router := newRateLimitedRouter(rl, 5)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ai/cover-letter", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimit_NilLimiter(t *testing.T) {
	assert.Nil(t, NewAIRateLimiter(nil, 10))

	router := newRateLimitedRouter(nil, 5)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ai/cover-letter", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestMetrics_PassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/jobs/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs/3", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
