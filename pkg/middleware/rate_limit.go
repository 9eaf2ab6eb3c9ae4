// Package middleware 提供 Gin 中间件：请求日志、请求 ID、限流、CORS、指标与追踪.
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/types"
)

const (
	// limiterIdleTTL 超过该时间没有请求的 key 会被回收.
	limiterIdleTTL = 10 * time.Minute
	// limiterSweepEvery 每处理多少个请求检查一次闲置 key.
	limiterSweepEvery = 1024
)

// RateLimitMiddleware 按配置的维度（global/ip/room/header:Name）对请求限流，超限返回 429.
func RateLimitMiddleware(cfg configs.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RPS <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	keyOf := rateLimitKey(cfg.Key)
	set := newLimiterSet(rate.Limit(cfg.RPS), cfg.Burst)

	return func(c *gin.Context) {
		if !set.allow(keyOf(c), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				types.ErrorResponse{Error: "Too many requests, please try again later"})

			return
		}

		c.Next()
	}
}

// rateLimitKey 返回从请求中提取限流 key 的函数.
func rateLimitKey(mode string) func(*gin.Context) string {
	mode = strings.TrimSpace(mode)

	switch {
	case mode == "" || strings.EqualFold(mode, "global"):
		return func(*gin.Context) string { return "global" }
	case strings.EqualFold(mode, "room"):
		return func(c *gin.Context) string {
			if room := c.Param("room"); room != "" {
				return "room:" + room
			}

			return "ip:" + c.ClientIP()
		}
	case len(mode) > len("header:") && strings.EqualFold(mode[:len("header:")], "header:"):
		header := mode[len("header:"):]

		return func(c *gin.Context) string {
			if v := c.GetHeader(header); v != "" {
				return "header:" + v
			}

			return "ip:" + c.ClientIP()
		}
	default:
		return func(c *gin.Context) string { return "ip:" + c.ClientIP() }
	}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet 每个 key 一个令牌桶，闲置的 key 在请求路径上顺带回收.
type limiterSet struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	entries map[string]*limiterEntry
	calls   int
}

func newLimiterSet(limit rate.Limit, burst int) *limiterSet {
	return &limiterSet{limit: limit, burst: burst, entries: map[string]*limiterEntry{}}
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.calls%limiterSweepEvery == 0 {
		s.sweep(now)
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.entries[key] = e
	}

	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

func (s *limiterSet) sweep(now time.Time) {
	for k, e := range s.entries {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(s.entries, k)
		}
	}
}
