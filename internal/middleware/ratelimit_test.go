package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
)

func newLimitedRouter(store limiter.Store, limit int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(store, limit, window))
	r.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func hit(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_MemoryStore(t *testing.T) {
	r := newLimitedRouter(NewMemoryRateStore(), 3, 10*time.Minute)

	for i := 1; i <= 3; i++ {
		w := hit(r, "10.0.0.1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("RateLimit-Limit"))
		assert.Equal(t, []string{"2", "1", "0"}[i-1], w.Header().Get("RateLimit-Remaining"))
	}

	w := hit(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())
	assert.Contains(t, []string{"599", "600"}, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2").Code, "other clients keep their own budget")
}

func TestRateLimit_WindowResets(t *testing.T) {
	r := newLimitedRouter(NewMemoryRateStore(), 1, 50*time.Millisecond)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1").Code)

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code, "a new window starts a new budget")
}

func TestRateLimit_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store, err := NewRedisRateStore(rdb)
	require.NoError(t, err)
	r := newLimitedRouter(store, 2, 10*time.Minute)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.9").Code)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.9").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.9").Code)
	assert.Equal(t, 10*time.Minute, mr.TTL(RateLimitPrefix+":10.0.0.9"))

	mr.FastForward(11 * time.Minute)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.9").Code)
}

func TestNewRedisRateStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	_, err := NewRedisRateStore(rdb)
	assert.Error(t, err)
}

type failingStore struct {
	limiter.Store
}

func (failingStore) Get(context.Context, string, limiter.Rate) (limiter.Context, error) {
	return limiter.Context{}, errors.New("down")
}

func TestRateLimit_StoreFailureFailsOpen(t *testing.T) {
	r := newLimitedRouter(failingStore{}, 1, time.Minute)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
}
