package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agakong/markitdown/internal/server/dto"
	"github.com/agakong/markitdown/internal/service"
)

// QueueHandler 队列状态 API Handler
type QueueHandler struct {
	svc *service.Service
}

// NewQueueHandler 创建 QueueHandler
func NewQueueHandler(svc *service.Service) *QueueHandler {
	return &QueueHandler{svc: svc}
}

// Status godoc
// @Summary 查询队列状态
// @Description 返回队列深度、worker 存活状态与任务总数
// @Tags Queue
// @Produce json
// @Success 200 {object} dto.QueueStatusResponse
// @Router /queue/status [get]
func (h *QueueHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, dto.QueueStatusResponse{
		QueueSize:   h.svc.QueueSize(),
		WorkerAlive: h.svc.WorkerAlive(),
		TotalTasks:  h.svc.TotalTasks(),
	})
}
