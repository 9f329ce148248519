package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/agakong/markitdown/internal/callback"
	"github.com/agakong/markitdown/internal/converter"
	"github.com/agakong/markitdown/internal/logger"
	"github.com/agakong/markitdown/internal/metrics"
	"github.com/agakong/markitdown/internal/model"
	"github.com/agakong/markitdown/internal/queue"
	"github.com/agakong/markitdown/internal/source"
	"github.com/agakong/markitdown/internal/status"
)

// defaultPollInterval Take 的短轮询间隔，保证空闲时也能及时观察到关闭信号
const defaultPollInterval = time.Second

// Worker 单消费者后台处理器：从队列顺序取任务，
// 跑完整条流水线（解析输入 → 转换 → 更新状态 → 回调 → 清理临时文件）。
// 单个任务的任何失败都在流水线边界被吞掉转成 failed 状态，循环本身只因队列关闭退出。
type Worker struct {
	queue           *queue.Queue
	store           *status.Store
	source          source.Source
	conv            *converter.MarkItDown
	dispatcher      *callback.Dispatcher
	defaultCallback string
	pollInterval    time.Duration

	alive atomic.Bool
	done  chan struct{}
}

// New 创建 worker（不启动）
func New(q *queue.Queue, st *status.Store, src source.Source, conv *converter.MarkItDown,
	d *callback.Dispatcher, defaultCallback string) *Worker {
	return &Worker{
		queue:           q,
		store:           st,
		source:          src,
		conv:            conv,
		dispatcher:      d,
		defaultCallback: defaultCallback,
		pollInterval:    defaultPollInterval,
		done:            make(chan struct{}),
	}
}

// Start 启动后台消费循环
func (w *Worker) Start() {
	w.alive.Store(true)
	go w.run()
	logger.Info().Msg("队列工作协程已启动")
}

// Alive worker 循环是否仍在运行
func (w *Worker) Alive() bool {
	return w.alive.Load()
}

// Done 循环退出后关闭，供优雅关停等待
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) run() {
	defer func() {
		w.alive.Store(false)
		close(w.done)
	}()

	for {
		task, err := w.queue.Take(w.pollInterval)
		if err == queue.ErrEmpty {
			continue
		}
		if err == queue.ErrClosed {
			logger.Info().Msg("收到关闭信号，队列工作协程退出")
			return
		}

		metrics.UpdateQueueSize(w.queue.Size())
		w.process(task)
	}
}

// process 处理单个任务。所有错误（包括 panic）都在这里兜底，
// 转成 failed 状态加一次失败回调，绝不让 worker 循环崩溃。
func (w *Worker) process(task *model.Task) {
	log := logger.WithTaskID(task.TaskID)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("任务处理发生 panic")
			w.fail(task, fmt.Sprintf("转换失败: 内部错误: %v", r), start)
		}
	}()

	log.Info().Str("filename", task.Filename).Msg("开始转换文件")
	w.store.MarkProcessing(task.TaskID)

	ctx := context.Background()

	path, cleanup, err := w.source.Resolve(ctx, task)
	if err != nil {
		log.Error().Err(err).Msg("解析输入失败")
		w.fail(task, err.Error(), start)
		return
	}
	// 无论成功失败都清理临时资源（清理本身尽力而为，失败只记日志）
	defer cleanup()

	res, err := w.conv.ConvertFile(path)
	if err != nil {
		log.Error().Err(err).Msg("转换失败")
		w.fail(task, fmt.Sprintf("转换失败: %v", err), start)
		return
	}

	w.store.MarkCompleted(task.TaskID, len(res.Markdown))
	metrics.RecordTaskCompleted(string(model.TaskStatusCompleted), time.Since(start).Seconds())
	log.Info().Int("markdown_length", len(res.Markdown)).Msg("转换成功")

	w.dispatcher.Notify(ctx, w.callbackURL(task), callback.Payload{
		TaskID:    task.TaskID,
		Status:    string(model.TaskStatusCompleted),
		Filename:  task.Filename,
		Markdown:  res.Markdown,
		Timestamp: time.Now(),
	})
}

func (w *Worker) fail(task *model.Task, errMsg string, start time.Time) {
	w.store.MarkFailed(task.TaskID, errMsg)
	metrics.RecordTaskCompleted(string(model.TaskStatusFailed), time.Since(start).Seconds())
	metrics.RecordError("worker", "task_failed")

	w.dispatcher.Notify(context.Background(), w.callbackURL(task), callback.Payload{
		TaskID:    task.TaskID,
		Status:    string(model.TaskStatusFailed),
		Filename:  task.Filename,
		Error:     errMsg,
		Timestamp: time.Now(),
	})
}

// callbackURL 任务级回调 URL 优先，缺省回退全局配置
func (w *Worker) callbackURL(task *model.Task) string {
	if task.CallbackURL != "" {
		return task.CallbackURL
	}
	return w.defaultCallback
}
