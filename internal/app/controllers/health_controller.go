package controllers

import (
	"github.com/gin-gonic/gin"

	"guardiannet-http-service/internal/domain/services/container"
	"guardiannet-http-service/internal/error/response"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct{}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController() *HealthCheckController {
	return &HealthCheckController{}
}

// Ping 健康检查端点
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(_ *container.ServiceContainer, method string) gin.HandlerFunc {
	controller := NewHealthCheckController()

	return func(ctx *gin.Context) {
		switch method {
		case "ping":
			controller.Ping(ctx)
		default:
			controller.Ping(ctx)
		}
	}
}
