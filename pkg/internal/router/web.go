package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/dontfile/pkg/internal/types"
	"github.com/yeisme/dontfile/web"
)

// RegisterWebRoutes 注册首页、静态资源，并把未匹配的单段 GET 路径当作房间页处理.
func RegisterWebRoutes(r *gin.Engine) {
	r.GET("/", servePage(web.HomePage))
	r.HEAD("/", servePage(web.HomePage))
	r.StaticFS("/assets", http.FS(web.Assets()))
	r.NoRoute(roomPageFallback(servePage(web.RoomPage)))
}

func servePage(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := web.Page(name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "page unavailable"})

			return
		}

		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}

// roomPageFallback 处理 /{room}：规范房间名返回房间页，不规范的重定向到规范名，无法规范化的回到首页.
func roomPageFallback(room gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.Trim(c.Request.URL.Path, "/")

		if (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) ||
			path == "" || strings.Contains(path, "/") || path == "api" {
			c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "Not found"})

			return
		}

		id, err := types.NewRoomID(path)
		if err != nil {
			c.Redirect(http.StatusFound, "/")

			return
		}

		if id.String() != path {
			c.Redirect(http.StatusFound, "/"+url.PathEscape(id.String()))

			return
		}

		room(c)
	}
}
