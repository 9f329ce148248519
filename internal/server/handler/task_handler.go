package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agakong/markitdown/internal/logger"
	"github.com/agakong/markitdown/internal/middleware"
	"github.com/agakong/markitdown/internal/server/dto"
	"github.com/agakong/markitdown/internal/service"
	"github.com/agakong/markitdown/internal/source"
)

// TaskHandler 转换任务相关 API Handler
type TaskHandler struct {
	svc *service.Service
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(svc *service.Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Convert godoc
// @Summary 提交转换任务
// @Description 提交文件转 Markdown 任务并入队，立即返回 task_id
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body dto.ConvertRequest true "转换请求"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /convert [post]
func (h *TaskHandler) Convert(c *gin.Context) {
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	rec, err := h.svc.Submit(c.Request.Context(), req.Reference(), req.CallbackURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyReference):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, source.ErrInputNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, service.ErrSourceUnavailable):
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		TaskID:  rec.TaskID,
		Status:  string(rec.Status),
		Message: "任务已加入队列",
	})
}

// GetTask godoc
// @Summary 查询任务状态
// @Description 根据 task_id 查询状态。任意 ID 都返回 200：未知或畸形 ID 得到合成的 failed 记录
// @Tags Tasks
// @Produce json
// @Param task_id path string true "任务 ID"
// @Success 200 {object} dto.TaskStatusResponse
// @Router /task/{task_id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID := c.Param("task_id")
	if !middleware.ValidateTaskID(taskID) {
		logger.Debug().Str("task_id", taskID).Msg("查询了非标准格式的 task_id")
	}

	rec := h.svc.TaskStatus(taskID)
	c.JSON(http.StatusOK, dto.NewTaskStatusResponse(rec))
}

// ListTasks godoc
// @Summary 列出全部任务
// @Description 返回状态表中的全部任务记录，按创建时间排序
// @Tags Tasks
// @Produce json
// @Success 200 {object} dto.TaskListResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	recs := h.svc.ListTasks()

	tasks := make([]dto.TaskStatusResponse, 0, len(recs))
	for _, rec := range recs {
		tasks = append(tasks, dto.NewTaskStatusResponse(rec))
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Total: len(tasks),
		Tasks: tasks,
	})
}
