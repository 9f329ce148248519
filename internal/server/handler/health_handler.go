package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agakong/markitdown/internal/healthcheck"
	"github.com/agakong/markitdown/internal/server/dto"
	"github.com/agakong/markitdown/internal/service"
)

// ServiceVersion 对外报告的服务版本号
const ServiceVersion = "1.0.0"

// HealthHandler 健康检查 Handler
type HealthHandler struct {
	svc           *service.Service
	healthChecker *healthcheck.HealthChecker
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(svc *service.Service, healthChecker *healthcheck.HealthChecker) *HealthHandler {
	return &HealthHandler{
		svc:           svc,
		healthChecker: healthChecker,
	}
}

// Root godoc
// @Summary 服务信息
// @Description 根路径：服务名、版本与队列深度
// @Tags Health
// @Produce json
// @Success 200 {object} dto.ServiceInfoResponse
// @Router / [get]
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ServiceInfoResponse{
		Service:   "MarkItDown API Server",
		Version:   ServiceVersion,
		Status:    "running",
		Source:    h.svc.SourceName(),
		QueueSize: h.svc.QueueSize(),
	})
}

// Health godoc
// @Summary 健康检查
// @Description 返回服务健康状态、队列深度与 worker 存活
// @Tags Health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:      "healthy",
		QueueSize:   h.svc.QueueSize(),
		WorkerAlive: h.svc.WorkerAlive(),
	})
}

// Liveness godoc
// @Summary Liveness 检查
// @Description 服务存活检查，用于 Kubernetes liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} healthcheck.CheckResult
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.healthChecker == nil {
		c.String(http.StatusOK, "ok")
		return
	}
	c.JSON(http.StatusOK, h.healthChecker.LivenessCheck())
}

// Readiness godoc
// @Summary Readiness 检查
// @Description 服务就绪检查：worker 存活、临时目录可写
// @Tags Health
// @Produce json
// @Success 200 {object} healthcheck.CheckResult
// @Failure 503 {object} healthcheck.CheckResult
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.healthChecker == nil {
		c.String(http.StatusOK, "ok")
		return
	}
	result := h.healthChecker.ReadinessCheck(c.Request.Context())
	if result.Status == "error" {
		c.JSON(http.StatusServiceUnavailable, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
