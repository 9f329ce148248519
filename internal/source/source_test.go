package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agakong/markitdown/internal/model"
)

func TestLocal_Stat(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "report.txt"), []byte("hello"), 0o644))

	src, err := NewLocal(root)
	require.NoError(t, err)
	assert.Equal(t, "local", src.Name())

	t.Run("existing file", func(t *testing.T) {
		assert.NoError(t, src.Stat(context.Background(), "report.txt"))
	})

	t.Run("missing file", func(t *testing.T) {
		err := src.Stat(context.Background(), "missing.pdf")
		assert.ErrorIs(t, err, ErrInputNotFound)
		assert.Contains(t, err.Error(), "missing.pdf")
	})

	t.Run("nested path", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "doc.md"), []byte("x"), 0o644))
		assert.NoError(t, src.Stat(context.Background(), "sub/doc.md"))
	})
}

func TestLocal_Resolve(t *testing.T) {
	root := t.TempDir()
	src, err := NewLocal(root)
	require.NoError(t, err)

	task := model.NewTask("sub/doc.md", "")
	path, cleanup, err := src.Resolve(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sub", "doc.md"), path)

	// 本地策略的 cleanup 是空操作，不应删除任何东西
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	cleanup()
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestNewLocal_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "input", "nested")
	_, err := NewLocal(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestTempFilename(t *testing.T) {
	tests := []struct {
		name   string
		taskID string
		ref    string
		want   string
	}{
		{"keeps extension", "task_abc123def456", "docs/report.docx", "task_abc123def456.docx"},
		{"pdf extension", "task_abc123def456", "report.pdf", "task_abc123def456.pdf"},
		{"no extension falls back", "task_abc123def456", "somekey", "task_abc123def456.tmp"},
		{"dotfile counts as extension", "task_abc123def456", "dir/.env", "task_abc123def456.env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tempFilename(tt.taskID, tt.ref))
		})
	}
}
