// Package router 管理路由配置，只负责把路径与处理器绑定到 gin 引擎.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/dontfile/pkg/internal/handle"
)

// ObjHandlers 定义由应用层注入的房间文件处理器，实现由 pkg/internal/handle 提供.
type ObjHandlers interface {
	List() gin.HandlerFunc
	Upload() gin.HandlerFunc
	Download() gin.HandlerFunc
	Delete() gin.HandlerFunc
	DeleteAll() gin.HandlerFunc
}

// defaultHandlers 返回 501 的占位实现，便于服务在处理器缺失时也能启动.
type defaultHandlers struct{}

func (defaultHandlers) List() gin.HandlerFunc      { return handle.DefaultHandler }
func (defaultHandlers) Upload() gin.HandlerFunc    { return handle.DefaultHandler }
func (defaultHandlers) Download() gin.HandlerFunc  { return handle.DefaultHandler }
func (defaultHandlers) Delete() gin.HandlerFunc    { return handle.DefaultHandler }
func (defaultHandlers) DeleteAll() gin.HandlerFunc { return handle.DefaultHandler }

// Register 将房间路由绑定到 group（上层使用 r.Group("/api/:room")），返回实际使用的 handlers.
//
//	GET    /files                -> List
//	POST   /upload               -> Upload
//	GET    /download/:filename   -> Download
//	DELETE /delete/:filename     -> Delete
//	DELETE /delete-all           -> DeleteAll
func Register(group *gin.RouterGroup, handlers ObjHandlers) ObjHandlers {
	if handlers == nil {
		handlers = defaultHandlers{}
	}

	group.GET("/files", handlers.List())
	group.POST("/upload", handlers.Upload())
	group.GET("/download/:filename", handlers.Download())
	group.HEAD("/download/:filename", handlers.Download())
	group.DELETE("/delete/:filename", handlers.Delete())
	group.DELETE("/delete-all", handlers.DeleteAll())

	return handlers
}

// RegisterHealthCheckRoute 注册健康检查路由.
func RegisterHealthCheckRoute(r gin.IRoutes, h gin.HandlerFunc) {
	r.GET("/healthz", h)
}
