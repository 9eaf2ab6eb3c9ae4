package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/dontfile/pkg/configs"
	dfctx "github.com/yeisme/dontfile/pkg/context"
	"github.com/yeisme/dontfile/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDGenerated(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())

	var seen string

	r.GET("/", func(c *gin.Context) {
		seen = dfctx.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get(middleware.HeaderRequestID)
	require.Len(t, id, 26)
	assert.Equal(t, id, seen)
}

func TestRequestIDPropagated(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, "client-id-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "client-id-1", w.Header().Get(middleware.HeaderRequestID))
}

func TestRateLimitPerRoom(t *testing.T) {
	r := gin.New()
	api := r.Group("/api/:room")
	api.Use(middleware.RateLimitMiddleware(configs.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1, Key: "room"}))
	api.GET("/files", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("/api/a/files"))
	assert.Equal(t, http.StatusTooManyRequests, do("/api/a/files"))
	assert.Equal(t, http.StatusOK, do("/api/b/files"), "rooms have separate buckets")
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(configs.RateLimitConfig{Enabled: false}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 5 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitByHeader(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimitMiddleware(configs.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1, Key: "header:X-Client"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(client string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Client", client)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("alice"))
	assert.Equal(t, http.StatusTooManyRequests, do("alice"))
	assert.Equal(t, http.StatusOK, do("bob"))
}
