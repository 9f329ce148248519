package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agakong/markitdown/internal/healthcheck"
	"github.com/agakong/markitdown/internal/middleware"
	"github.com/agakong/markitdown/internal/server/handler"
	"github.com/agakong/markitdown/internal/service"
)

// Deps 路由依赖
type Deps struct {
	// Service 转换服务（队列 + 状态表 + worker）
	Service *service.Service

	// HealthChecker 健康检查器（可选）
	HealthChecker *healthcheck.HealthChecker

	// MetricsEnabled 是否暴露 /metrics
	MetricsEnabled bool
}

// NewRouter 提供 Gin HTTP API
func NewRouter(deps Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	// 全局中间件
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.PrometheusMiddleware())
	r.Use(middleware.PayloadSizeLimit(middleware.MaxPayloadSize))
	r.Use(middleware.CORSMiddleware())

	// 创建各个 handler 实例
	healthHandler := handler.NewHealthHandler(deps.Service, deps.HealthChecker)
	taskHandler := handler.NewTaskHandler(deps.Service)
	queueHandler := handler.NewQueueHandler(deps.Service)

	// 服务信息与健康检查
	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Prometheus metrics 端点
	if deps.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// 任务路由。状态查询对任意 ID 都返回 200：
	// 未知或畸形的 ID 由状态表合成 failed 记录兜底，不做格式拦截。
	r.POST("/convert", taskHandler.Convert)
	r.GET("/task/:task_id", taskHandler.GetTask)
	r.GET("/tasks", taskHandler.ListTasks)

	// 队列路由
	r.GET("/queue/status", queueHandler.Status)

	return r
}
