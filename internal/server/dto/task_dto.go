package dto

import (
	"time"

	"github.com/agakong/markitdown/internal/status"
)

// ConvertRequest 提交转换请求。
// filename 对应本地策略（输入目录下的相对路径），
// oss_path 对应 OSS 策略（bucket 内对象 key）；按部署的来源策略取用其一。
type ConvertRequest struct {
	Filename    string `json:"filename" example:"report.pdf"`
	OSSPath     string `json:"oss_path" example:"docs/report.docx"`
	CallbackURL string `json:"callback_url" example:"http://callback.local/notify"`
}

// Reference 返回当前请求携带的输入引用（filename 优先）
func (r ConvertRequest) Reference() string {
	if r.Filename != "" {
		return r.Filename
	}
	return r.OSSPath
}

// ConvertResponse 提交转换响应
type ConvertResponse struct {
	TaskID  string `json:"task_id" example:"task_a1b2c3d4e5f6"`
	Status  string `json:"status" example:"queued"`
	Message string `json:"message" example:"任务已加入队列"`
}

// TaskStatusResponse 任务状态响应
type TaskStatusResponse struct {
	TaskID      string     `json:"task_id" example:"task_a1b2c3d4e5f6"`
	Status      string     `json:"status" example:"completed"`
	Filename    string     `json:"filename" example:"report.pdf"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Error       *string    `json:"error"`
}

// NewTaskStatusResponse 由状态记录构造响应（markdown 长度等内部字段不外露）
func NewTaskStatusResponse(rec status.Record) TaskStatusResponse {
	return TaskStatusResponse{
		TaskID:      rec.TaskID,
		Status:      string(rec.Status),
		Filename:    rec.Filename,
		CreatedAt:   rec.CreatedAt,
		CompletedAt: rec.CompletedAt,
		Error:       rec.Error,
	}
}

// TaskListResponse 任务列表响应
type TaskListResponse struct {
	Total int                  `json:"total"`
	Tasks []TaskStatusResponse `json:"tasks"`
}
