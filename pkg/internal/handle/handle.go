// Package handle 提供 HTTP 请求处理器，把 gin 请求转换为 service 调用并统一映射错误.
package handle

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	dfctx "github.com/yeisme/dontfile/pkg/context"
	"github.com/yeisme/dontfile/pkg/internal/service"
	"github.com/yeisme/dontfile/pkg/internal/types"
)

// FileHandlers 房间文件处理器.
type FileHandlers struct {
	svc            *service.FileService
	supportContact string
}

// NewFileHandlers 创建处理器，supportContact 会出现在存储已满的提示中.
func NewFileHandlers(svc *service.FileService, supportContact string) *FileHandlers {
	return &FileHandlers{svc: svc, supportContact: supportContact}
}

// DefaultHandler 未实现的占位处理器.
func DefaultHandler(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, types.ErrorResponse{Error: "not implemented"})
}

// roomParam 严格解析路径中的房间名，非规范名返回 400.
func (h *FileHandlers) roomParam(c *gin.Context) (types.RoomID, bool) {
	room, err := types.ParseRoomID(c.Param("room"))
	if err != nil {
		h.writeError(c, err, "")

		return types.RoomID{}, false
	}

	return room, true
}

func (h *FileHandlers) maxUploadMB() int64 {
	return h.svc.MaxUploadBytes() / (1024 * 1024)
}

// writeError 把服务层错误映射为 HTTP 状态码与 {error} 响应体，fallback 用于未知错误.
func (h *FileHandlers) writeError(c *gin.Context, err error, fallback string) {
	logger := dfctx.Logger(c.Request.Context())

	var (
		status int
		msg    string
		mbe    *http.MaxBytesError
	)

	switch {
	case errors.Is(err, service.ErrInvalidRoom):
		status, msg = http.StatusBadRequest, "Invalid room name"
	case errors.Is(err, service.ErrInvalidFileName):
		status, msg = http.StatusBadRequest, "Invalid file name"
	case errors.Is(err, service.ErrNoFile):
		status, msg = http.StatusBadRequest, "No file uploaded"
	case errors.Is(err, service.ErrFileTooLarge), errors.As(err, &mbe):
		status, msg = http.StatusBadRequest, fmt.Sprintf("File too large (max: %dMB)", h.maxUploadMB())
	case errors.Is(err, service.ErrFileNotFound):
		status, msg = http.StatusNotFound, "File not found"
	case errors.Is(err, service.ErrStorageFull):
		status = http.StatusInsufficientStorage
		msg = "No storage space available. Please contact support: " + h.supportContact

		logger.Error().Err(err).Str("room", c.Param("room")).Msg("storage is full, operator action required")
	case errors.Is(err, service.ErrStorageUnavailable):
		status, msg = http.StatusServiceUnavailable, "Storage temporarily unavailable, please retry later"
	default:
		status, msg = http.StatusInternalServerError, fallback
		if msg == "" {
			msg = "Internal server error"
		}
	}

	if status >= http.StatusInternalServerError && status != http.StatusInsufficientStorage {
		logger.Error().Err(err).Int("status", status).Msg(msg)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, types.ErrorResponse{Error: msg})
}
