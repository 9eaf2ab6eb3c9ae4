package service

import (
	"errors"

	"github.com/yeisme/dontfile/pkg/internal/types"
)

var (
	// ErrInvalidRoom 房间名无效.
	ErrInvalidRoom = types.ErrInvalidRoom
	// ErrInvalidFileName 文件名无效.
	ErrInvalidFileName = types.ErrInvalidFileName
	// ErrNoFile 上传请求中没有文件.
	ErrNoFile = errors.New("no file uploaded")
	// ErrFileTooLarge 文件超过大小上限.
	ErrFileTooLarge = errors.New("file too large")
	// ErrFileNotFound 房间内不存在该文件.
	ErrFileNotFound = errors.New("file not found")
	// ErrStorageFull 存储空间不足.
	ErrStorageFull = errors.New("server storage is full")
	// ErrStorageUnavailable 存储后端暂不可用.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)
