package handle

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/dontfile/pkg/internal/service"
	"github.com/yeisme/dontfile/pkg/internal/storage"
	"github.com/yeisme/dontfile/pkg/internal/types"
)

const (
	// uploadFieldName multipart 中文件字段名.
	uploadFieldName = "file"
	// multipartSlack 请求体上限在文件上限之外允许的 multipart 头部与边界开销.
	multipartSlack = 1 << 20
)

// List 处理房间文件列表.
//
//	@Summary		列出房间文件
//	@Tags			房间
//	@Produce		json
//	@Param			room	path		string				true	"房间名"
//	@Success		200		{array}		types.FileEntry		"文件列表"
//	@Failure		400		{object}	types.ErrorResponse	"房间名无效"
//	@Failure		500		{object}	types.ErrorResponse	"服务器内部错误"
//	@Router			/api/{room}/files [get]
func (h *FileHandlers) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := h.roomParam(c)
		if !ok {
			return
		}

		entries, err := h.svc.List(c.Request.Context(), room)
		if err != nil {
			h.writeError(c, err, "Failed to list files")

			return
		}

		c.JSON(http.StatusOK, entries)
	}
}

// Upload 处理 multipart 上传，文件内容直接流式写入存储，不在内存或临时目录中缓冲整个请求.
//
//	@Summary		上传文件到房间
//	@Tags			房间
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			room	path		string				true	"房间名"
//	@Param			file	formData	file				true	"文件"
//	@Success		200		{object}	types.UploadResult	"上传结果"
//	@Failure		400		{object}	types.ErrorResponse	"没有文件或文件过大"
//	@Failure		507		{object}	types.ErrorResponse	"存储空间不足"
//	@Failure		500		{object}	types.ErrorResponse	"服务器内部错误"
//	@Router			/api/{room}/upload [post]
func (h *FileHandlers) Upload() gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := h.roomParam(c)
		if !ok {
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.svc.MaxUploadBytes()+multipartSlack)

		mr, err := c.Request.MultipartReader()
		if err != nil {
			h.writeError(c, service.ErrNoFile, "")

			return
		}

		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				h.writeError(c, service.ErrNoFile, "")

				return
			}

			if err != nil {
				var mbe *http.MaxBytesError
				if errors.As(err, &mbe) {
					h.writeError(c, err, "")
				} else {
					h.writeError(c, service.ErrNoFile, "")
				}

				return
			}

			if part.FormName() != uploadFieldName || part.FileName() == "" {
				_ = part.Close()

				continue
			}

			res, err := h.svc.Upload(c.Request.Context(), room, part.FileName(), part, storage.UnknownSize)
			_ = part.Close()

			if err != nil {
				h.writeError(c, err, "Failed to upload file")

				return
			}

			c.JSON(http.StatusOK, res)

			return
		}
	}
}

// Download 以附件形式返回文件，支持 Range 与条件请求.
//
//	@Summary		下载房间文件
//	@Tags			房间
//	@Produce		octet-stream
//	@Param			room		path		string				true	"房间名"
//	@Param			filename	path		string				true	"文件名"
//	@Success		200			{file}		binary				"文件内容"
//	@Failure		404			{object}	types.ErrorResponse	"文件不存在"
//	@Router			/api/{room}/download/{filename} [get]
func (h *FileHandlers) Download() gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := h.roomParam(c)
		if !ok {
			return
		}

		rc, entry, err := h.svc.Download(c.Request.Context(), room, c.Param("filename"))
		if err != nil {
			h.writeError(c, err, "Failed to download file")

			return
		}
		defer rc.Close()

		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": entry.Name})
		if disposition == "" {
			disposition = "attachment"
		}

		c.Header("Content-Disposition", disposition)
		c.Header("ETag", ETag(entry))
		c.Header("Cache-Control", "no-cache")

		http.ServeContent(c.Writer, c.Request, entry.Name, entry.UploadDate, rc)
	}
}

// Delete 删除单个文件.
//
//	@Summary		删除房间文件
//	@Tags			房间
//	@Produce		json
//	@Param			room		path		string				true	"房间名"
//	@Param			filename	path		string				true	"文件名"
//	@Success		200			{object}	types.DeleteResult	"删除结果"
//	@Failure		404			{object}	types.ErrorResponse	"文件不存在"
//	@Failure		500			{object}	types.ErrorResponse	"服务器内部错误"
//	@Router			/api/{room}/delete/{filename} [delete]
func (h *FileHandlers) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := h.roomParam(c)
		if !ok {
			return
		}

		res, err := h.svc.DeleteOne(c.Request.Context(), room, c.Param("filename"))
		if err != nil {
			h.writeError(c, err, "Failed to delete file")

			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// DeleteAll 清空房间.
//
//	@Summary		清空房间
//	@Tags			房间
//	@Produce		json
//	@Param			room	path		string				true	"房间名"
//	@Success		200		{object}	types.DeleteResult	"删除结果，deleted 为删除数量"
//	@Failure		500		{object}	types.ErrorResponse	"服务器内部错误"
//	@Router			/api/{room}/delete-all [delete]
func (h *FileHandlers) DeleteAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := h.roomParam(c)
		if !ok {
			return
		}

		res, err := h.svc.DeleteAll(c.Request.Context(), room)
		if err != nil {
			h.writeError(c, err, "Failed to delete files")

			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// ETag 由文件名、大小与修改时间计算的弱 ETag.
func ETag(e types.FileEntry) string {
	d := xxhash.New()
	_, _ = d.WriteString(e.Name)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(strconv.FormatInt(e.Size, 10))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(strconv.FormatInt(e.UploadDate.UnixNano(), 10))

	return `W/"` + strconv.FormatUint(d.Sum64(), 16) + `"`
}
