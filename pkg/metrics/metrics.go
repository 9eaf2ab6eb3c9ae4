// Package metrics 提供 Prometheus 监控指标.
// 所有指标注册在包内独立的 registry 上，通过 Handler 暴露.
//
// Example:
//
//	metrics.Init(configs.GetConfig().Metrics)
//	metrics.Uploads.WithLabelValues(metrics.ResultOK).Inc()
//	engine.GET("/metrics", metrics.Handler())
package metrics

import (
	"net/http/pprof"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/dontfile/pkg/configs"
)

const namespace = "dontfile"

// 上传结果标签.
const (
	ResultOK       = "ok"
	ResultTooLarge = "too_large"
	ResultFull     = "storage_full"
	ResultError    = "error"
)

// 删除类型标签.
const (
	DeleteOne = "one"
	DeleteAll = "all"
)

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器，route 使用路由模板避免高基数.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Uploads 上传次数，按结果区分.
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Number of upload attempts by result",
		},
		[]string{"result"},
	)

	// UploadBytes 成功写入的字节数.
	UploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Bytes stored by successful uploads",
		},
	)

	// Deletes 删除次数，按单个/清空区分.
	Deletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletes_total",
			Help:      "Number of delete operations by kind",
		},
		[]string{"kind"},
	)

	// Rooms 当前房间数，由定时任务更新.
	Rooms = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rooms",
		Help:      "Number of rooms currently present in storage",
	})

	// Files 当前文件数.
	Files = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "files",
		Help:      "Number of files currently stored across all rooms",
	})

	// StoredBytes 当前占用字节数.
	StoredBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stored_bytes",
		Help:      "Total bytes currently stored across all rooms",
	})

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()

	initOnce sync.Once
)

func init() {
	registry.MustRegister(
		RequestCounter, RequestDuration,
		Uploads, UploadBytes, Deletes,
		Rooms, Files, StoredBytes,
	)
}

// Init 按配置注册运行时收集器，重复调用无副作用.
func Init(cfg configs.MetricsConfig) {
	if !cfg.Enabled || !cfg.RuntimeMetrics {
		return
	}

	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// Handler 返回 /metrics 处理器.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
}

// Register 在 engine 上挂载指标端点，按配置挂载 pprof.
func Register(cfg configs.MetricsConfig, engine *gin.Engine) {
	if !cfg.Enabled {
		return
	}

	engine.GET(cfg.Path, Handler())

	if cfg.Pprof {
		dbg := engine.Group("/debug/pprof")
		dbg.GET("/", gin.WrapF(pprof.Index))
		dbg.GET("/cmdline", gin.WrapF(pprof.Cmdline))
		dbg.GET("/profile", gin.WrapF(pprof.Profile))
		dbg.GET("/symbol", gin.WrapF(pprof.Symbol))
		dbg.GET("/trace", gin.WrapF(pprof.Trace))
		dbg.GET("/:name", func(c *gin.Context) {
			pprof.Handler(c.Param("name")).ServeHTTP(c.Writer, c.Request)
		})
	}
}

// GetRegistry 获取Prometheus注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}

// SetUsage 更新存储用量仪表.
func SetUsage(rooms, files int, bytes int64) {
	Rooms.Set(float64(rooms))
	Files.Set(float64(files))
	StoredBytes.Set(float64(bytes))
}
