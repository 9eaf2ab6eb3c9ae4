// Package storage 定义房间文件存储后端的统一接口，并按配置初始化具体实现.
//
// 后端通过 RegisterFactory 在各自包的 init 中注册，目前支持：
//   - local：本地文件系统，每个房间一个目录（默认）
//   - s3：MinIO / S3 兼容对象存储，每个房间一个键前缀
//
// Example:
//
//	import (
//		"github.com/yeisme/dontfile/pkg/internal/storage"
//		_ "github.com/yeisme/dontfile/pkg/internal/storage/local"
//	)
//
//	mgr, err := storage.Init(ctx, &configs.GetConfig().Storage, &configs.GetConfig().CircuitBreaker)
//	if err != nil {
//		// 处理错误
//	}
//	entries, err := mgr.Store().List(ctx, room)
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/types"
	nlog "github.com/yeisme/dontfile/pkg/log"
)

var (
	// ErrNotFound 房间内不存在该文件.
	ErrNotFound = errors.New("file not found")
	// ErrNoSpace 底层存储空间不足（ENOSPC 或等价错误）.
	ErrNoSpace = errors.New("no space left on storage")
	// ErrUnavailable 后端暂不可用（熔断器打开）.
	ErrUnavailable = errors.New("storage temporarily unavailable")
	// ErrTooLarge 写入内容超过大小上限.
	ErrTooLarge = errors.New("file exceeds size limit")
)

// UnknownSize 表示写入时长度未知，由后端流式读取直到 EOF.
const UnknownSize int64 = -1

// Store 房间文件存储后端.
// 所有实现都不维护额外索引，文件的存在与元数据始终实时来自后端本身.
type Store interface {
	// Name 返回后端类型名.
	Name() string
	// List 列出房间内的文件，房间不存在时返回空切片.
	List(ctx context.Context, room types.RoomID) ([]types.FileEntry, error)
	// Put 以原始文件名写入，覆盖同名文件；写入失败时不能留下半个文件.
	Put(ctx context.Context, room types.RoomID, name string, r io.Reader, size int64) (types.FileEntry, error)
	// Open 打开文件用于下载，不存在时返回 ErrNotFound.
	Open(ctx context.Context, room types.RoomID, name string) (io.ReadSeekCloser, types.FileEntry, error)
	// Delete 删除单个文件，不存在时返回 ErrNotFound.
	Delete(ctx context.Context, room types.RoomID, name string) error
	// DeleteAll 删除房间内所有文件但保留房间本身，返回删除数量.
	DeleteAll(ctx context.Context, room types.RoomID) (int, error)
	// Rooms 列出当前存在的房间.
	Rooms(ctx context.Context) ([]types.RoomID, error)
	// HealthCheck 探测后端是否可用.
	HealthCheck(ctx context.Context) error
	// Close 释放资源.
	Close() error
}

// Factory 根据配置创建 Store.
type Factory func(ctx context.Context, cfg *configs.StorageConfig) (Store, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[configs.StorageType]Factory{}
)

// RegisterFactory 注册存储后端工厂.
func RegisterFactory(t configs.StorageType, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	factories[t] = f
}

// GetRegisteredTypes 返回已注册的后端类型列表（有序）.
func GetRegisteredTypes() []configs.StorageType {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	out := make([]configs.StorageType, 0, len(factories))
	for t := range factories {
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// New 按配置创建 Store，远端后端会被熔断器包裹.
func New(ctx context.Context, cfg *configs.StorageConfig, cb *configs.CircuitBreakerConfig) (Store, error) {
	factoriesMu.RLock()
	factory, ok := factories[cfg.Type]
	factoriesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}

	store, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init storage (%s): %w", cfg.Type, err)
	}

	if cfg.Type != configs.StorageTypeLocal && cb != nil && cb.Enabled {
		store = WithBreaker(store, cb)
	}

	return store, nil
}

// Manager 持有当前进程使用的存储后端.
type Manager struct {
	store Store
}

var (
	mgr     *Manager
	mgrErr  error
	mgrOnce sync.Once
)

// Init 初始化默认存储，重复调用只返回已初始化实例.
func Init(ctx context.Context, cfg *configs.StorageConfig, cb *configs.CircuitBreakerConfig) (*Manager, error) {
	mgrOnce.Do(func() {
		store, err := New(ctx, cfg, cb)
		if err != nil {
			mgrErr = err

			return
		}

		mgr = &Manager{store: store}

		nlog.Logger().Info().Str("backend", store.Name()).Msg("storage manager initialized")
	})

	return mgr, mgrErr
}

// NewManager 直接用给定 Store 构造 Manager，便于测试.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Store 返回存储后端.
func (m *Manager) Store() Store {
	return m.store
}

// Close 关闭存储后端.
func (m *Manager) Close() error {
	if m == nil || m.store == nil {
		return nil
	}

	return m.store.Close()
}

// ContextReader 在每次读取前检查 ctx，客户端断开后尽快终止写入.
type ContextReader struct {
	Ctx context.Context //nolint:containedctx
	R   io.Reader
}

func (r *ContextReader) Read(p []byte) (int, error) {
	if err := r.Ctx.Err(); err != nil {
		return 0, err
	}

	return r.R.Read(p)
}

// LimitedReader 读取超过 Max 字节后返回 ErrTooLarge，与 io.LimitedReader 不同，它不会静默截断.
type LimitedReader struct {
	R        io.Reader
	Max      int64
	read     int64
	Exceeded bool
}

func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Exceeded {
		return 0, ErrTooLarge
	}

	n, err := l.R.Read(p)
	l.read += int64(n)

	if l.read > l.Max {
		l.Exceeded = true

		return n, ErrTooLarge
	}

	return n, err
}
