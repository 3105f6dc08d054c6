package controller

import (
	"context"
	"net/http"
	"time"

	"intern_hub_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthController struct {
	DB *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{DB: db}
}

// @Summary 健康检查
// @Description 检查服务与数据库状态
// @Tags 系统
// @Produce json
// @Success 200 {object} object "{ok:true}"
// @Failure 503 {object} object "数据库不可用"
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		logger.Log.Error("Health check failed", zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"ok":         false,
			"components": gin.H{"database": "down"},
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
