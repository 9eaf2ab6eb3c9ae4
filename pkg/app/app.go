// Package app 提供应用程序的初始化、运行与优雅关闭.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/dontfile/pkg/api"
	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/jobs"
	"github.com/yeisme/dontfile/pkg/internal/service"
	"github.com/yeisme/dontfile/pkg/internal/storage"
	"github.com/yeisme/dontfile/pkg/internal/storage/mq"
	"github.com/yeisme/dontfile/pkg/log"
	"github.com/yeisme/dontfile/pkg/metrics"
	"github.com/yeisme/dontfile/pkg/queue"
	"github.com/yeisme/dontfile/pkg/scheduler"
	"github.com/yeisme/dontfile/pkg/tracing"

	// 注册存储后端.
	_ "github.com/yeisme/dontfile/pkg/internal/storage/local"
	_ "github.com/yeisme/dontfile/pkg/internal/storage/s3"
)

// App 持有服务进程的全部组件.
type App struct {
	Engine *gin.Engine
	config *configs.AppConfig
	logger zerolog.Logger

	storage   *storage.Manager
	mq        *mq.Client
	scheduler *scheduler.Scheduler
	service   *service.FileService
}

// NewApp 加载配置并依次初始化日志、指标、追踪、存储、事件、定时任务与路由.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	if err := configs.InitConfig(configPath); err != nil {
		return nil, fmt.Errorf("init config: %w", err)
	}

	cfg := configs.GetConfig()

	log.Init()
	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	metrics.Init(cfg.Metrics)

	if err := tracing.InitTracer(cfg.Tracing); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	a := &App{config: cfg, logger: *l}

	manager, err := storage.Init(ctx, &cfg.Storage, &cfg.CircuitBreaker)
	if err != nil {
		return nil, err
	}

	a.storage = manager

	opts := []service.Option{
		service.WithMaxUploadBytes(cfg.Storage.MaxUploadBytes()),
		service.WithLogger(*l),
	}

	if cfg.Events.Enabled {
		client, err := mq.New(ctx, &cfg.MQ, metrics.GetRegistry())
		if err != nil {
			a.Close(ctx)

			return nil, fmt.Errorf("init event transport: %w", err)
		}

		a.mq = client
		opts = append(opts, service.WithEmitter(queue.NewEmitter(client.Publisher(), cfg.Events, *l)))
	}

	a.service = service.NewFileService(manager.Store(), opts...)

	if cfg.Jobs.Enabled {
		sched, err := scheduler.NewScheduler(*l)
		if err != nil {
			a.Close(ctx)

			return nil, fmt.Errorf("init scheduler: %w", err)
		}

		a.scheduler = sched

		if err := jobs.RegisterCronJobs(ctx, sched, cfg.Jobs, a.service, *l); err != nil {
			a.Close(ctx)

			return nil, fmt.Errorf("register jobs: %w", err)
		}
	}

	a.Engine = api.NewEngine(a.service, api.Options{
		Server:         cfg.Server,
		RateLimit:      cfg.RateLimit,
		Metrics:        cfg.Metrics,
		SupportContact: cfg.Storage.SupportContact,
		Scheduler:      a.scheduler,
	})

	return a, nil
}

// Addr 返回监听地址.
func (a *App) Addr() string {
	return net.JoinHostPort(a.config.Server.Host, strconv.Itoa(a.config.Server.Port))
}

// Run 启动 HTTP 服务、定时任务与事件日志订阅，收到 SIGINT/SIGTERM 或 ctx 结束后优雅关闭.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              a.Addr(),
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Str("addr", srv.Addr).Str("backend", a.service.Backend()).Msg("dontfile listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	if a.scheduler != nil {
		a.scheduler.Start()

		// 启动时先统计一次，指标不必等到第一次 cron 触发
		if err := a.scheduler.RunNow(jobs.JobStorageUsage); err != nil {
			a.logger.Warn().Err(err).Msg("initial usage run failed")
		}
	}

	if a.mq != nil && a.config.Events.LogSink {
		g.Go(func() error {
			return queue.RunLogSink(gctx, a.mq, a.logger)
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.config.Server.GetShutdownTimeout())
		defer cancel()

		a.logger.Info().Msg("shutting down")

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}

		a.Close(shutdownCtx)

		return nil
	})

	return g.Wait()
}

// Close 关闭定时任务、事件传输、存储与追踪，错误只记录日志.
func (a *App) Close(ctx context.Context) {
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			a.logger.Warn().Err(err).Msg("scheduler shutdown")
		}

		a.scheduler = nil
	}

	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("event transport close")
		}

		a.mq = nil
	}

	if err := a.storage.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("storage close")
	}

	if err := tracing.ShutdownTracer(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("tracer shutdown")
	}
}
