package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/dontfile/pkg/internal/service"
)

const healthTimeout = 2 * time.Second

// Health 存储后端健康检查.
//
//	@Summary		健康检查
//	@Tags			系统
//	@Produce		json
//	@Success		200	{object}	map[string]string	"存储可用"
//	@Failure		503	{object}	map[string]string	"存储不可用"
//	@Router			/healthz [get]
func Health(svc *service.FileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := svc.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "backend": svc.Backend(), "error": err.Error()})

			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": svc.Backend()})
	}
}
