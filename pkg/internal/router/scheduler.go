package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/dontfile/pkg/internal/types"
	"github.com/yeisme/dontfile/pkg/scheduler"
)

// RegisterSchedulerRoutes 注册定时任务的查看与手动触发路由（挂在调试分组下）.
func RegisterSchedulerRoutes(g *gin.RouterGroup, sched *scheduler.Scheduler) {
	if sched == nil {
		return
	}

	g.GET("/jobs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"jobs":    sched.GetJobInfos(),
			"waiting": sched.JobsWaitingInQueue(),
		})
	})

	g.POST("/jobs/:name/run", func(c *gin.Context) {
		if err := sched.RunNow(c.Param("name")); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, scheduler.ErrJobNotFound) {
				status = http.StatusNotFound
			}

			c.JSON(status, types.ErrorResponse{Error: err.Error()})

			return
		}

		c.JSON(http.StatusAccepted, gin.H{"status": "triggered"})
	})
}
