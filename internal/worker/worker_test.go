package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agakong/markitdown/internal/callback"
	"github.com/agakong/markitdown/internal/converter"
	"github.com/agakong/markitdown/internal/model"
	"github.com/agakong/markitdown/internal/queue"
	"github.com/agakong/markitdown/internal/source"
	"github.com/agakong/markitdown/internal/status"
)

// callbackRecorder 收集回调请求体的测试服务器
type callbackRecorder struct {
	mu       sync.Mutex
	payloads []callback.Payload
	srv      *httptest.Server
}

func newCallbackRecorder(t *testing.T) *callbackRecorder {
	t.Helper()
	rec := &callbackRecorder{}
	rec.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p callback.Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		rec.mu.Lock()
		rec.payloads = append(rec.payloads, p)
		rec.mu.Unlock()
	}))
	t.Cleanup(rec.srv.Close)
	return rec
}

func (r *callbackRecorder) all() []callback.Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]callback.Payload, len(r.payloads))
	copy(out, r.payloads)
	return out
}

func newTestWorker(t *testing.T, root, defaultCallback string) (*Worker, *queue.Queue, *status.Store) {
	t.Helper()
	src, err := source.NewLocal(root)
	require.NoError(t, err)

	q := queue.New()
	st := status.NewStore()
	w := New(q, st, src, converter.New(), callback.NewDispatcher(2*time.Second), defaultCallback)
	w.pollInterval = 10 * time.Millisecond
	return w, q, st
}

func waitTerminal(t *testing.T, st *status.Store, taskID string) status.Record {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		rec := st.Get(taskID)
		if rec.Status.Terminal() {
			return rec
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("任务 %s 未在限期内到达终态", taskID)
	return status.Record{}
}

func TestWorker_SuccessfulConversion(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "report.txt"), []byte("hello markdown"), 0o644))

	rec := newCallbackRecorder(t)
	w, q, st := newTestWorker(t, root, rec.srv.URL)

	task := model.NewTask("report.txt", "")
	st.Create(task)
	q.Submit(task)
	w.Start()
	defer q.Close()

	got := waitTerminal(t, st, task.TaskID)
	assert.Equal(t, model.TaskStatusCompleted, got.Status)
	assert.Equal(t, len("hello markdown"), got.MarkdownLength)
	require.NotNil(t, got.CompletedAt)
	assert.Nil(t, got.Error)

	// 恰好一次成功回调，携带 Markdown 内容
	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, 2*time.Second, 10*time.Millisecond)
	p := rec.all()[0]
	assert.Equal(t, task.TaskID, p.TaskID)
	assert.Equal(t, "completed", p.Status)
	assert.Equal(t, "hello markdown", p.Markdown)
	assert.Empty(t, p.Error)
}

func TestWorker_MissingInputFails(t *testing.T) {
	rec := newCallbackRecorder(t)
	w, q, st := newTestWorker(t, t.TempDir(), rec.srv.URL)

	task := model.NewTask("missing.txt", "")
	st.Create(task)
	q.Submit(task)
	w.Start()
	defer q.Close()

	got := waitTerminal(t, st, task.TaskID)
	assert.Equal(t, model.TaskStatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Contains(t, *got.Error, "转换失败")

	// 恰好一次失败回调，携带错误不携带 Markdown
	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, 2*time.Second, 10*time.Millisecond)
	p := rec.all()[0]
	assert.Equal(t, "failed", p.Status)
	assert.NotEmpty(t, p.Error)
	assert.Empty(t, p.Markdown)
}

func TestWorker_NoCallbackURLNoDelivery(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	rec := newCallbackRecorder(t)
	// 既无全局回调也无任务级回调
	w, q, st := newTestWorker(t, root, "")

	task := model.NewTask("a.txt", "")
	st.Create(task)
	q.Submit(task)
	w.Start()
	defer q.Close()

	waitTerminal(t, st, task.TaskID)
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, rec.all(), "未配置回调 URL 时不应有任何投递")
}

func TestWorker_TaskCallbackOverridesDefault(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	defaultRec := newCallbackRecorder(t)
	taskRec := newCallbackRecorder(t)
	w, q, st := newTestWorker(t, root, defaultRec.srv.URL)

	task := model.NewTask("a.txt", taskRec.srv.URL)
	st.Create(task)
	q.Submit(task)
	w.Start()
	defer q.Close()

	waitTerminal(t, st, task.TaskID)
	require.Eventually(t, func() bool { return len(taskRec.all()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, defaultRec.all(), "任务级回调应覆盖全局默认")
}

func TestWorker_ProcessesInSubmissionOrder(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.txt"), []byte("content"), 0o644))

	rec := newCallbackRecorder(t)
	w, q, st := newTestWorker(t, root, rec.srv.URL)

	// 相同输入引用的两次提交：独立任务、独立 ID、按提交顺序处理
	t1 := model.NewTask("doc.txt", "")
	t2 := model.NewTask("doc.txt", "")
	assert.NotEqual(t, t1.TaskID, t2.TaskID)

	st.Create(t1)
	q.Submit(t1)
	st.Create(t2)
	q.Submit(t2)
	w.Start()
	defer q.Close()

	waitTerminal(t, st, t1.TaskID)
	waitTerminal(t, st, t2.TaskID)

	require.Eventually(t, func() bool { return len(rec.all()) == 2 }, 2*time.Second, 10*time.Millisecond)
	payloads := rec.all()
	assert.Equal(t, t1.TaskID, payloads[0].TaskID, "应按提交顺序处理")
	assert.Equal(t, t2.TaskID, payloads[1].TaskID)
}

func TestWorker_ContinuesAfterFailure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "good.txt"), []byte("ok"), 0o644))

	w, q, st := newTestWorker(t, root, "")

	bad := model.NewTask("bad.txt", "")
	good := model.NewTask("good.txt", "")
	st.Create(bad)
	q.Submit(bad)
	st.Create(good)
	q.Submit(good)
	w.Start()
	defer q.Close()

	// 前一个任务失败不影响后续任务
	assert.Equal(t, model.TaskStatusFailed, waitTerminal(t, st, bad.TaskID).Status)
	assert.Equal(t, model.TaskStatusCompleted, waitTerminal(t, st, good.TaskID).Status)
	assert.True(t, w.Alive())
}

func TestWorker_StopsOnQueueClose(t *testing.T) {
	w, q, _ := newTestWorker(t, t.TempDir(), "")
	w.Start()
	require.True(t, w.Alive())

	q.Close()
	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker 未在队列关闭后退出")
	}
	assert.False(t, w.Alive())
}

// cleanupSource 模拟远端策略：Resolve 产生临时文件，记录 cleanup 是否被调用
type cleanupSource struct {
	dir       string
	failFetch bool
	mu        sync.Mutex
	resolved  []string
	cleanedUp int
}

func (s *cleanupSource) Name() string                           { return "fake" }
func (s *cleanupSource) Stat(_ context.Context, _ string) error { return nil }

func (s *cleanupSource) Resolve(_ context.Context, task *model.Task) (string, func(), error) {
	if s.failFetch {
		return "", func() {}, source.ErrInputNotFound
	}
	path := filepath.Join(s.dir, task.TaskID+".txt")
	if err := os.WriteFile(path, []byte("downloaded"), 0o644); err != nil {
		return "", func() {}, err
	}
	s.mu.Lock()
	s.resolved = append(s.resolved, path)
	s.mu.Unlock()
	return path, func() {
		os.Remove(path)
		s.mu.Lock()
		s.cleanedUp++
		s.mu.Unlock()
	}, nil
}

func TestWorker_TempFileRemovedAfterProcessing(t *testing.T) {
	dir := t.TempDir()
	src := &cleanupSource{dir: dir}

	q := queue.New()
	st := status.NewStore()
	w := New(q, st, src, converter.New(), callback.NewDispatcher(time.Second), "")
	w.pollInterval = 10 * time.Millisecond

	task := model.NewTask("remote/object.txt", "")
	st.Create(task)
	q.Submit(task)
	w.Start()
	defer q.Close()

	got := waitTerminal(t, st, task.TaskID)
	assert.Equal(t, model.TaskStatusCompleted, got.Status)

	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.cleanedUp == 1
	}, 2*time.Second, 10*time.Millisecond)

	// 终态之后临时文件必须不存在
	src.mu.Lock()
	path := src.resolved[0]
	src.mu.Unlock()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWorker_ResolveFailureMarksFailed(t *testing.T) {
	src := &cleanupSource{dir: t.TempDir(), failFetch: true}

	q := queue.New()
	st := status.NewStore()
	w := New(q, st, src, converter.New(), callback.NewDispatcher(time.Second), "")
	w.pollInterval = 10 * time.Millisecond

	task := model.NewTask("missing/doc.docx", "")
	st.Create(task)
	q.Submit(task)
	w.Start()
	defer q.Close()

	got := waitTerminal(t, st, task.TaskID)
	assert.Equal(t, model.TaskStatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Contains(t, *got.Error, "不存在")
	assert.True(t, w.Alive(), "单任务失败不应终止 worker")
}
