package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sony/gobreaker"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/types"
	nlog "github.com/yeisme/dontfile/pkg/log"
)

// breakerStore 基于 gobreaker 的熔断装饰器，远端存储连续失败时快速返回 ErrUnavailable.
type breakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker 用熔断器包裹 Store.
func WithBreaker(next Store, cfg *configs.CircuitBreakerConfig) Store {
	settings := gobreaker.Settings{
		Name:        "storage-" + next.Name(),
		MaxRequests: cfg.MaxRequestsInHalf,
		Interval:    cfg.Interval(),
		Timeout:     cfg.Timeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.Requests
			if total < cfg.MinRequests {
				return false
			}
			// 失败比例
			failureRate := float64(counts.TotalFailures) / float64(total)

			return failureRate >= cfg.FailureRate
		},
		// 业务结果不算后端故障
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrTooLarge) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, types.ErrInvalidFileName)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			nlog.Logger().Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("storage circuit breaker state changed")
		},
	}

	return &breakerStore{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breakerStore) exec(fn func() (any, error)) (any, error) {
	res, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return res, err
}

func (b *breakerStore) Name() string { return b.next.Name() }

func (b *breakerStore) List(ctx context.Context, room types.RoomID) ([]types.FileEntry, error) {
	res, err := b.exec(func() (any, error) { return b.next.List(ctx, room) })
	if err != nil {
		return nil, err
	}

	return res.([]types.FileEntry), nil //nolint:forcetypeassert
}

func (b *breakerStore) Put(ctx context.Context, room types.RoomID, name string, r io.Reader, size int64) (types.FileEntry, error) {
	res, err := b.exec(func() (any, error) { return b.next.Put(ctx, room, name, r, size) })
	if err != nil {
		return types.FileEntry{}, err
	}

	return res.(types.FileEntry), nil //nolint:forcetypeassert
}

type openResult struct {
	rc    io.ReadSeekCloser
	entry types.FileEntry
}

func (b *breakerStore) Open(ctx context.Context, room types.RoomID, name string) (io.ReadSeekCloser, types.FileEntry, error) {
	res, err := b.exec(func() (any, error) {
		rc, entry, err := b.next.Open(ctx, room, name)
		if err != nil {
			return nil, err
		}

		return openResult{rc: rc, entry: entry}, nil
	})
	if err != nil {
		return nil, types.FileEntry{}, err
	}

	or := res.(openResult) //nolint:forcetypeassert

	return or.rc, or.entry, nil
}

func (b *breakerStore) Delete(ctx context.Context, room types.RoomID, name string) error {
	_, err := b.exec(func() (any, error) { return nil, b.next.Delete(ctx, room, name) })

	return err
}

func (b *breakerStore) DeleteAll(ctx context.Context, room types.RoomID) (int, error) {
	res, err := b.exec(func() (any, error) { return b.next.DeleteAll(ctx, room) })
	if err != nil {
		return 0, err
	}

	return res.(int), nil //nolint:forcetypeassert
}

func (b *breakerStore) Rooms(ctx context.Context) ([]types.RoomID, error) {
	res, err := b.exec(func() (any, error) { return b.next.Rooms(ctx) })
	if err != nil {
		return nil, err
	}

	return res.([]types.RoomID), nil //nolint:forcetypeassert
}

func (b *breakerStore) HealthCheck(ctx context.Context) error {
	_, err := b.exec(func() (any, error) { return nil, b.next.HealthCheck(ctx) })

	return err
}

func (b *breakerStore) Close() error { return b.next.Close() }
