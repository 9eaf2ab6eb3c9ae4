// Package api 组装 HTTP 服务：中间件链、房间 API、健康检查、页面、指标与文档路由.
package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/handle"
	"github.com/yeisme/dontfile/pkg/internal/router"
	"github.com/yeisme/dontfile/pkg/internal/service"
	"github.com/yeisme/dontfile/pkg/metrics"
	"github.com/yeisme/dontfile/pkg/middleware"
	"github.com/yeisme/dontfile/pkg/scheduler"
)

// downloadPathPattern 下载响应不做 gzip，保留 Range 与 Content-Length.
const downloadPathPattern = `^/api/[^/]+/download/`

// Options 路由树依赖的配置与可选组件.
type Options struct {
	Server         configs.ServerConfig
	RateLimit      configs.RateLimitConfig
	Metrics        configs.MetricsConfig
	SupportContact string
	Scheduler      *scheduler.Scheduler // 可为 nil，调试模式下挂载 /debug/jobs
}

// NewEngine 创建带完整中间件链的 gin 引擎并注册全部路由.
func NewEngine(svc *service.FileService, opts Options) *gin.Engine {
	engine := gin.New()

	engine.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.TracingMiddleware(),
		middleware.GinLoggerMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.CORSMiddleware(opts.Server),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{downloadPathPattern})),
	)

	return RegisterGroup(engine, svc, opts)
}

// RegisterGroup 注册房间 API、健康检查、指标、文档与页面路由到传入的 gin 引擎.
func RegisterGroup(e *gin.Engine, svc *service.FileService, opts Options) *gin.Engine {
	rooms := e.Group("/api/:room", middleware.RateLimitMiddleware(opts.RateLimit))
	router.Register(rooms, handle.NewFileHandlers(svc, opts.SupportContact))

	router.RegisterHealthCheckRoute(e, handle.Health(svc))
	metrics.Register(opts.Metrics, e)
	router.RegisterSwaggerRoute(e, opts.Server)

	if opts.Server.Debug {
		router.RegisterSchedulerRoutes(e.Group("/debug"), opts.Scheduler)
	}

	router.RegisterWebRoutes(e)

	return e
}
