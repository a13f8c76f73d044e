package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashwinyue/next-mentor/internal/service"
)

// SystemHandler 系统处理器
type SystemHandler struct {
	svc *service.Services
}

// NewSystemHandler 创建系统处理器
func NewSystemHandler(svc *service.Services) *SystemHandler {
	return &SystemHandler{svc: svc}
}

// Health 健康检查
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	info := gin.H{
		"status":   "ok",
		"version":  h.svc.Config.App.Version,
		"database": "ok",
	}

	if err := h.ping(ctx); err != nil {
		info["status"] = "degraded"
		info["database"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, SuccessResponse{Success: false, Data: info})
		return
	}

	Success(c, info)
}

func (h *SystemHandler) ping(ctx context.Context) error {
	sqlDB, err := h.svc.Repos.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
