// Package service 实现房间文件的业务逻辑：列表、上传、下载、删除与清空.
// 服务不持有任何索引，所有结果实时来自存储后端.
package service

import (
	"github.com/rs/zerolog"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/storage"
	nlog "github.com/yeisme/dontfile/pkg/log"
	"github.com/yeisme/dontfile/pkg/queue"
)

// FileService 房间文件服务.
type FileService struct {
	store          storage.Store
	maxUploadBytes int64
	emitter        *queue.Emitter
	logger         zerolog.Logger
}

// Option 配置 FileService.
type Option func(*FileService)

// WithMaxUploadBytes 设置单文件大小上限，<=0 时保持默认值.
func WithMaxUploadBytes(n int64) Option {
	return func(s *FileService) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithEmitter 设置房间事件发布器，nil 表示不发布.
func WithEmitter(e *queue.Emitter) Option {
	return func(s *FileService) { s.emitter = e }
}

// WithLogger 设置 logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *FileService) { s.logger = l }
}

// NewFileService 创建房间文件服务.
func NewFileService(store storage.Store, opts ...Option) *FileService {
	s := &FileService{
		store:          store,
		maxUploadBytes: configs.DefaultMaxUploadMB * 1024 * 1024,
		logger:         *nlog.Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MaxUploadBytes 返回单文件大小上限（字节）.
func (s *FileService) MaxUploadBytes() int64 { return s.maxUploadBytes }

// Backend 返回存储后端名称.
func (s *FileService) Backend() string { return s.store.Name() }
