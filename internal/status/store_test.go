package status

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agakong/markitdown/internal/model"
)

func TestStore_Lifecycle(t *testing.T) {
	store := NewStore()
	task := model.NewTask("report.pdf", "")

	rec := store.Create(task)
	assert.Equal(t, model.TaskStatusQueued, rec.Status)
	assert.Equal(t, "report.pdf", rec.Filename)
	assert.Nil(t, rec.CompletedAt)
	assert.Nil(t, rec.Error)

	// queued → processing
	assert.True(t, store.MarkProcessing(task.TaskID))
	assert.Equal(t, model.TaskStatusProcessing, store.Get(task.TaskID).Status)

	// processing → completed
	assert.True(t, store.MarkCompleted(task.TaskID, 1024))
	got := store.Get(task.TaskID)
	assert.Equal(t, model.TaskStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Nil(t, got.Error)
	assert.Equal(t, 1024, got.MarkdownLength)
}

func TestStore_FailedLifecycle(t *testing.T) {
	store := NewStore()
	task := model.NewTask("broken.docx", "")
	store.Create(task)

	assert.True(t, store.MarkProcessing(task.TaskID))
	assert.True(t, store.MarkFailed(task.TaskID, "转换失败: 文件损坏"))

	got := store.Get(task.TaskID)
	assert.Equal(t, model.TaskStatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Contains(t, *got.Error, "转换失败")
	require.NotNil(t, got.CompletedAt)
}

func TestStore_TerminalIsFinal(t *testing.T) {
	store := NewStore()
	task := model.NewTask("a.txt", "")
	store.Create(task)
	store.MarkProcessing(task.TaskID)
	store.MarkCompleted(task.TaskID, 10)

	// 终态后任何迁移都被拒绝
	assert.False(t, store.MarkFailed(task.TaskID, "boom"))
	assert.False(t, store.MarkCompleted(task.TaskID, 99))
	assert.False(t, store.MarkProcessing(task.TaskID))

	got := store.Get(task.TaskID)
	assert.Equal(t, model.TaskStatusCompleted, got.Status)
	assert.Equal(t, 10, got.MarkdownLength)
}

func TestStore_MarkProcessingRequiresQueued(t *testing.T) {
	store := NewStore()

	// 不存在的任务
	assert.False(t, store.MarkProcessing("task_missing00"))

	task := model.NewTask("a.txt", "")
	store.Create(task)
	assert.True(t, store.MarkProcessing(task.TaskID))
	// 重复标记无效
	assert.False(t, store.MarkProcessing(task.TaskID))
}

func TestStore_GetUnknownSynthesizesFailed(t *testing.T) {
	store := NewStore()

	got := store.Get("task_deadbeef0000")
	assert.Equal(t, "task_deadbeef0000", got.TaskID)
	assert.Equal(t, model.TaskStatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Contains(t, *got.Error, "服务重启")
	require.NotNil(t, got.CompletedAt)

	// 合成记录不入表
	assert.Equal(t, 0, store.Count())
}

func TestStore_ListSortedByCreation(t *testing.T) {
	store := NewStore()

	t1 := model.NewTask("1.txt", "")
	t2 := model.NewTask("2.txt", "")
	t3 := model.NewTask("3.txt", "")
	t2.CreatedAt = t1.CreatedAt.Add(1)
	t3.CreatedAt = t1.CreatedAt.Add(2)

	store.Create(t3)
	store.Create(t1)
	store.Create(t2)

	list := store.List()
	require.Len(t, list, 3)
	assert.Equal(t, t1.TaskID, list[0].TaskID)
	assert.Equal(t, t2.TaskID, list[1].TaskID)
	assert.Equal(t, t3.TaskID, list[2].TaskID)
	assert.Equal(t, 3, store.Count())
}

func TestRecord_MarkdownLengthNotSerialized(t *testing.T) {
	store := NewStore()
	task := model.NewTask("a.txt", "")
	store.Create(task)
	store.MarkProcessing(task.TaskID)
	store.MarkCompleted(task.TaskID, 4096)

	data, err := json.Marshal(store.Get(task.TaskID))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "4096")
	assert.NotContains(t, string(data), "markdown_length")
	// 非终态字段以 null 形式保留
	assert.Contains(t, string(data), `"error":null`)
}
