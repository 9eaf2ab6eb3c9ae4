package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/dontfile/pkg/internal/storage"
	"github.com/yeisme/dontfile/pkg/internal/types"
	"github.com/yeisme/dontfile/pkg/metrics"
	"github.com/yeisme/dontfile/pkg/queue"
	"github.com/yeisme/dontfile/pkg/tracing"
)

// List 列出房间内的文件，房间不存在时返回空切片.
func (s *FileService) List(ctx context.Context, room types.RoomID) (entries []types.FileEntry, err error) {
	ctx, span := startSpan(ctx, "room.list", room)
	defer func() { tracing.EndSpan(span, err) }()

	entries, err = s.store.List(ctx, room)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	if entries == nil {
		entries = []types.FileEntry{}
	}

	span.SetAttributes(attribute.Int("dontfile.files", len(entries)))

	return entries, nil
}

// Upload 把 r 写入房间，size 为声明长度（未知时传 storage.UnknownSize）.
// 声明长度与实际读取长度都受上限约束，失败时不会留下文件.
func (s *FileService) Upload(ctx context.Context, room types.RoomID, name string, r io.Reader, size int64) (res types.UploadResult, err error) {
	ctx, span := startSpan(ctx, "room.upload", room, attribute.String("dontfile.file", name))
	defer func() { tracing.EndSpan(span, err) }()

	if err := types.ValidateFileName(name); err != nil {
		return res, err
	}

	if size > s.maxUploadBytes {
		metrics.Uploads.WithLabelValues(metrics.ResultTooLarge).Inc()

		return res, ErrFileTooLarge
	}

	lr := &storage.LimitedReader{R: r, Max: s.maxUploadBytes}

	entry, err := s.store.Put(ctx, room, name, lr, size)
	if err != nil {
		switch {
		case lr.Exceeded || errors.Is(err, storage.ErrTooLarge):
			metrics.Uploads.WithLabelValues(metrics.ResultTooLarge).Inc()

			return res, ErrFileTooLarge
		case errors.Is(err, storage.ErrNoSpace):
			metrics.Uploads.WithLabelValues(metrics.ResultFull).Inc()
			s.emitter.StorageFull(ctx, queue.StorageFullPayload{
				Room: room.String(), FileName: name, Backend: s.store.Name(), Error: err.Error(),
			})
		default:
			metrics.Uploads.WithLabelValues(metrics.ResultError).Inc()
		}

		return res, mapStorageErr(err)
	}

	metrics.Uploads.WithLabelValues(metrics.ResultOK).Inc()
	metrics.UploadBytes.Add(float64(entry.Size))

	s.emitter.FileUploaded(ctx, queue.FileUploadedPayload{
		Room: room.String(),
		File: queue.FileRef{Name: entry.Name, Size: entry.Size, UploadDate: entry.UploadDate},
	})

	return types.UploadResult{Success: true, Filename: entry.Name, Size: entry.Size}, nil
}

// Download 打开房间内的文件，调用方负责关闭.
func (s *FileService) Download(ctx context.Context, room types.RoomID, name string) (rc io.ReadSeekCloser, entry types.FileEntry, err error) {
	ctx, span := startSpan(ctx, "room.download", room, attribute.String("dontfile.file", name))
	defer func() { tracing.EndSpan(span, err) }()

	if err := types.ValidateFileName(name); err != nil {
		return nil, entry, err
	}

	rc, entry, err = s.store.Open(ctx, room, name)
	if err != nil {
		return nil, entry, mapStorageErr(err)
	}

	return rc, entry, nil
}

// DeleteOne 删除单个文件.
func (s *FileService) DeleteOne(ctx context.Context, room types.RoomID, name string) (res types.DeleteResult, err error) {
	ctx, span := startSpan(ctx, "room.delete", room, attribute.String("dontfile.file", name))
	defer func() { tracing.EndSpan(span, err) }()

	if err := types.ValidateFileName(name); err != nil {
		return res, err
	}

	if err := s.store.Delete(ctx, room, name); err != nil {
		return res, mapStorageErr(err)
	}

	metrics.Deletes.WithLabelValues(metrics.DeleteOne).Inc()
	s.emitter.FileDeleted(ctx, queue.FileDeletedPayload{Room: room.String(), FileName: name})

	return types.DeleteResult{Success: true, Message: "File deleted successfully"}, nil
}

// DeleteAll 清空房间，房间本身保留；房间不存在时删除数量为 0.
func (s *FileService) DeleteAll(ctx context.Context, room types.RoomID) (res types.DeleteResult, err error) {
	ctx, span := startSpan(ctx, "room.delete_all", room)
	defer func() { tracing.EndSpan(span, err) }()

	n, err := s.store.DeleteAll(ctx, room)
	if err != nil {
		return res, mapStorageErr(err)
	}

	span.SetAttributes(attribute.Int("dontfile.deleted", n))
	metrics.Deletes.WithLabelValues(metrics.DeleteAll).Inc()
	s.emitter.RoomCleared(ctx, queue.RoomClearedPayload{Room: room.String(), Deleted: n})

	return types.DeleteResult{
		Success: true,
		Message: fmt.Sprintf("Deleted %d file(s)", n),
		Deleted: &n,
	}, nil
}

// Usage 统计所有房间的文件数与占用字节数.
func (s *FileService) Usage(ctx context.Context) (types.UsageStats, error) {
	var stats types.UsageStats

	rooms, err := s.store.Rooms(ctx)
	if err != nil {
		return stats, mapStorageErr(err)
	}

	stats.Rooms = len(rooms)

	for _, room := range rooms {
		entries, err := s.store.List(ctx, room)
		if err != nil {
			return stats, mapStorageErr(err)
		}

		stats.Files += len(entries)
		for _, e := range entries {
			stats.Bytes += e.Size
		}
	}

	return stats, nil
}

// Rooms 列出当前存在的房间.
func (s *FileService) Rooms(ctx context.Context) ([]types.RoomID, error) {
	rooms, err := s.store.Rooms(ctx)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	return rooms, nil
}

// HealthCheck 探测存储后端.
func (s *FileService) HealthCheck(ctx context.Context) error {
	if err := s.store.HealthCheck(ctx); err != nil {
		return mapStorageErr(err)
	}

	return nil
}

func startSpan(ctx context.Context, name string, room types.RoomID, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("dontfile.room", room.String()))

	return tracing.StartSpan(ctx, name, trace.WithAttributes(attrs...))
}

// mapStorageErr 把存储层错误映射为服务层哨兵错误，保留原始错误链.
func mapStorageErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, storage.ErrNoSpace):
		return fmt.Errorf("%w: %w", ErrStorageFull, err)
	case errors.Is(err, storage.ErrTooLarge):
		return ErrFileTooLarge
	case errors.Is(err, storage.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	default:
		return err
	}
}
