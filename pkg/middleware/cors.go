package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/dontfile/pkg/configs"
)

// CORSMiddleware CORS中间件，暴露下载与请求 ID 相关的响应头.
func CORSMiddleware(cfg configs.ServerConfig) gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"}
	config.ExposeHeaders = []string{"Content-Disposition", "Content-Length", "ETag", HeaderRequestID}

	if cfg.Debug {
		config.AllowHeaders = append(config.AllowHeaders, HeaderRequestID)
	}

	return cors.New(config)
}
