package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agakong/markitdown/internal/model"
)

// Local 本地文件系统策略：输入引用是挂载输入目录下的相对路径。
type Local struct {
	root string
}

// NewLocal 创建本地策略，确保输入目录存在
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("创建输入目录失败: %w", err)
	}
	return &Local{root: root}, nil
}

func (l *Local) Name() string {
	return "local"
}

// Stat 提交时快速失败：文件不存在直接拒绝提交
func (l *Local) Stat(_ context.Context, ref string) error {
	if _, err := os.Stat(filepath.Join(l.root, ref)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, ref)
		}
		return fmt.Errorf("访问输入文件失败: %w", err)
	}
	return nil
}

// Resolve 直接拼接输入目录路径，不产生临时文件。
// 提交检查与实际读取之间的竞态窗口是接受的，不再二次加锁。
func (l *Local) Resolve(_ context.Context, task *model.Task) (string, func(), error) {
	return filepath.Join(l.root, task.Filename), func() {}, nil
}
