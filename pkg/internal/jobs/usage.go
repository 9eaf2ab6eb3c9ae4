// Package jobs 负责注册与实现业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/types"
	"github.com/yeisme/dontfile/pkg/metrics"
	"github.com/yeisme/dontfile/pkg/scheduler"
)

// UsageSource 提供存储用量统计，由 service.FileService 实现.
type UsageSource interface {
	Usage(ctx context.Context) (types.UsageStats, error)
}

// RegisterCronJobs 按配置注册业务定时任务：
//   - storage.usage：统计房间数、文件数与占用字节，更新 Prometheus 仪表
func RegisterCronJobs(ctx context.Context, sched *scheduler.Scheduler, cfg configs.JobsConfig, src UsageSource, logger zerolog.Logger) error {
	if sched == nil {
		return errors.New("scheduler is nil")
	}

	if src == nil {
		return errors.New("usage source is nil")
	}

	return sched.AddCron(ctx, JobStorageUsage, cfg.UsageCron, func(ctx context.Context) error {
		return RunStorageUsage(ctx, src, logger)
	})
}

// RunStorageUsage 统计一次存储用量并更新指标，只读不删.
func RunStorageUsage(ctx context.Context, src UsageSource, logger zerolog.Logger) error {
	stats, err := src.Usage(ctx)
	if err != nil {
		return err
	}

	metrics.SetUsage(stats.Rooms, stats.Files, stats.Bytes)

	logger.Debug().
		Str("job", JobStorageUsage).
		Int("rooms", stats.Rooms).
		Int("files", stats.Files).
		Int64("bytes", stats.Bytes).
		Msg("storage usage updated")

	return nil
}
