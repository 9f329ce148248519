package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/agakong/markitdown/internal/model"
)

var (
	// ErrEmpty 等待超时仍无任务（用于 worker 的短轮询，便于观察关闭信号）
	ErrEmpty = errors.New("队列为空")

	// ErrClosed 队列已关闭且剩余任务已取完
	ErrClosed = errors.New("队列已关闭")
)

// Queue 无界 FIFO 转换队列。
// 多个 HTTP handler 并发入队，单个 worker 顺序消费；
// Submit 永不阻塞也永不拒绝，顺序严格按提交先后。
type Queue struct {
	mu     sync.Mutex
	items  []*model.Task
	notify chan struct{}
	done   chan struct{}
	closed bool
}

func New() *Queue {
	return &Queue{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Submit 追加任务到队尾。队列关闭后入队的任务不再被消费，直接丢弃。
func (q *Queue) Submit(t *model.Task) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, t)
	q.mu.Unlock()

	// 非阻塞唤醒消费者
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Take 取出队首任务，最多等待 timeout。
// 超时返回 ErrEmpty；关闭且排空后返回 ErrClosed（关闭前的存量任务仍会被取出）。
func (q *Queue) Take(timeout time.Duration) (*model.Task, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			t := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return t, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return nil, ErrClosed
		}

		select {
		case <-q.notify:
		case <-q.done:
			// 回到循环顶部，先排空存量任务再返回 ErrClosed
		case <-deadline.C:
			return nil, ErrEmpty
		}
	}
}

// Close 发出关闭信号。幂等；之后的 Submit 被丢弃，Take 排空后退出。
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()
	close(q.done)
}

// Size 当前等待中的任务数
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
