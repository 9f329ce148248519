package model

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// TaskStatus 任务状态枚举。
// 约定：
// - queued: 已入队（等待被 worker 消费）
// - processing: worker 开始处理
// - completed: 转换成功
// - failed: 转换失败（终态，不再重试）
type TaskStatus string

const (
	TaskStatusQueued     TaskStatus = "queued"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusQueued, TaskStatusProcessing, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal 是否为终态（completed/failed 之后不允许再变更）
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Task 一次转换任务。创建后不可变：入队前归提交方所有，
// 出队后归 worker 所有，期间不存在共享写入。
type Task struct {
	TaskID      string    `json:"task_id"`
	Filename    string    `json:"filename"` // 输入引用：本地相对路径或 OSS 对象 key
	CallbackURL string    `json:"callback_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTask 创建任务并生成 task_id
func NewTask(filename, callbackURL string) *Task {
	return &Task{
		TaskID:      NewTaskID(),
		Filename:    filename,
		CallbackURL: callbackURL,
		CreatedAt:   time.Now(),
	}
}

// NewTaskID 生成一个随机 task_id。
// 格式：task_ 前缀 + 12 位 hex，足够区分且便于日志检索。
func NewTaskID() string {
	id := uuid.New()
	return "task_" + hex.EncodeToString(id[:])[:12]
}
