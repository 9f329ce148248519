package status

import (
	"sort"
	"sync"
	"time"

	"github.com/agakong/markitdown/internal/model"
)

// Record 任务状态记录。对外返回的快照，completed_at/error 在终态前为 null。
// MarkdownLength 仅内部统计用，不序列化给调用方。
type Record struct {
	TaskID      string           `json:"task_id"`
	Status      model.TaskStatus `json:"status"`
	Filename    string           `json:"filename"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at"`
	Error       *string          `json:"error"`

	MarkdownLength int `json:"-"`
}

// Store 进程内任务状态表。
// 单把锁保护全部读写；记录只增不删，进程重启即丢失。
// 状态迁移严格遵循 queued → processing → {completed|failed}，终态后不再变更。
type Store struct {
	mu    sync.Mutex
	items map[string]*Record // key: task_id
}

func NewStore() *Store {
	return &Store{
		items: map[string]*Record{},
	}
}

// Create 在提交时登记 queued 记录（与入队同一逻辑步骤）
func (s *Store) Create(task *model.Task) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &Record{
		TaskID:    task.TaskID,
		Status:    model.TaskStatusQueued,
		Filename:  task.Filename,
		CreatedAt: task.CreatedAt,
	}
	s.items[task.TaskID] = rec
	return *rec
}

// MarkProcessing 标记开始处理。仅允许从 queued 迁移。
func (s *Store) MarkProcessing(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[taskID]
	if !ok || rec.Status != model.TaskStatusQueued {
		return false
	}
	rec.Status = model.TaskStatusProcessing
	return true
}

// MarkCompleted 标记转换成功并记录 Markdown 长度。终态后再次调用无效。
func (s *Store) MarkCompleted(taskID string, markdownLength int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[taskID]
	if !ok || rec.Status.Terminal() {
		return false
	}
	now := time.Now()
	rec.Status = model.TaskStatusCompleted
	rec.CompletedAt = &now
	rec.MarkdownLength = markdownLength
	return true
}

// MarkFailed 标记转换失败并记录错误信息。终态后再次调用无效。
func (s *Store) MarkFailed(taskID string, errMsg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[taskID]
	if !ok || rec.Status.Terminal() {
		return false
	}
	now := time.Now()
	rec.Status = model.TaskStatusFailed
	rec.CompletedAt = &now
	rec.Error = &errMsg
	return true
}

// Get 查询任务状态。
// 未知 task_id 不返回 not found，而是合成一条 failed 记录——
// 状态表是纯内存的，服务重启后调用方仍能拿到一个可判定的终态。
func (s *Store) Get(taskID string) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.items[taskID]; ok {
		return *rec
	}

	now := time.Now()
	msg := "未找到对应的任务，可能是服务重启导致任务状态丢失"
	return Record{
		TaskID:      taskID,
		Status:      model.TaskStatusFailed,
		CompletedAt: &now,
		Error:       &msg,
	}
}

// List 返回全部记录，按创建时间排序
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, 0, len(s.items))
	for _, rec := range s.items {
		out = append(out, *rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].TaskID < out[j].TaskID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out
}

// Count 记录总数
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
