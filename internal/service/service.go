package service

import (
	"context"
	"errors"
	"strings"

	"github.com/agakong/markitdown/internal/callback"
	"github.com/agakong/markitdown/internal/converter"
	"github.com/agakong/markitdown/internal/logger"
	"github.com/agakong/markitdown/internal/metrics"
	"github.com/agakong/markitdown/internal/model"
	"github.com/agakong/markitdown/internal/queue"
	"github.com/agakong/markitdown/internal/source"
	"github.com/agakong/markitdown/internal/status"
	"github.com/agakong/markitdown/internal/worker"
)

var (
	// ErrEmptyReference 提交的输入引用为空
	ErrEmptyReference = errors.New("输入引用不能为空")

	// ErrSourceUnavailable 输入来源适配器未初始化
	ErrSourceUnavailable = errors.New("输入来源未初始化")
)

// Service 转换服务：显式持有队列、状态表与 worker 生命周期，
// 注入到 API 层使用，不依赖任何包级全局状态。
type Service struct {
	queue  *queue.Queue
	store  *status.Store
	worker *worker.Worker
	source source.Source
}

// New 组装服务（worker 不自动启动，调用 Start）
func New(src source.Source, conv *converter.MarkItDown, d *callback.Dispatcher, defaultCallback string) *Service {
	q := queue.New()
	st := status.NewStore()
	w := worker.New(q, st, src, conv, d, defaultCallback)

	return &Service{
		queue:  q,
		store:  st,
		worker: w,
		source: src,
	}
}

// Start 启动后台 worker
func (s *Service) Start() {
	s.worker.Start()
}

// Shutdown 关闭队列并等待 worker 退出（受 ctx 期限约束）
func (s *Service) Shutdown(ctx context.Context) error {
	s.queue.Close()

	select {
	case <-s.worker.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit 提交转换任务：校验引用 → 来源存在性检查 → 登记状态 → 入队。
// 返回 queued 状态记录；入队后立即返回，不等待处理。
func (s *Service) Submit(ctx context.Context, ref, callbackURL string) (status.Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return status.Record{}, ErrEmptyReference
	}
	if s.source == nil {
		return status.Record{}, ErrSourceUnavailable
	}

	// 本地策略快速失败；OSS 策略尽力而为，永不在此阻塞提交
	if err := s.source.Stat(ctx, ref); err != nil {
		return status.Record{}, err
	}

	task := model.NewTask(ref, callbackURL)
	rec := s.store.Create(task)
	s.queue.Submit(task)

	metrics.RecordTaskCreated()
	metrics.UpdateQueueSize(s.queue.Size())
	log := logger.WithTaskID(task.TaskID)
	log.Info().Str("filename", ref).Msg("任务已加入队列")

	return rec, nil
}

// TaskStatus 查询任务状态（未知 ID 返回合成的 failed 记录）
func (s *Service) TaskStatus(taskID string) status.Record {
	return s.store.Get(taskID)
}

// ListTasks 返回全部任务状态记录
func (s *Service) ListTasks() []status.Record {
	return s.store.List()
}

// QueueSize 当前队列深度
func (s *Service) QueueSize() int {
	return s.queue.Size()
}

// WorkerAlive worker 是否存活
func (s *Service) WorkerAlive() bool {
	return s.worker.Alive()
}

// TotalTasks 状态表中的记录总数
func (s *Service) TotalTasks() int {
	return s.store.Count()
}

// SourceName 当前输入来源策略名
func (s *Service) SourceName() string {
	if s.source == nil {
		return ""
	}
	return s.source.Name()
}
