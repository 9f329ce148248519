package source

import (
	"context"
	"errors"

	"github.com/agakong/markitdown/internal/model"
)

// ErrInputNotFound 输入引用指向的文件/对象不存在
var ErrInputNotFound = errors.New("输入文件不存在")

// Source 输入解析策略：把任务的输入引用解析为 converter 可用的本地路径。
// 部署时二选一（本地目录或 OSS），不支持按请求切换。
type Source interface {
	// Name 策略名（local/oss），用于日志与健康检查
	Name() string

	// Stat 提交时的存在性检查。本地策略快速失败；
	// OSS 策略尽力而为，检查失败不阻塞提交（下载时才是权威检查）。
	Stat(ctx context.Context, ref string) error

	// Resolve 在处理时把输入引用解析为本地文件路径。
	// 返回的 cleanup 在任务结束后必须调用（无论成功失败），
	// 用于删除远端策略产生的临时文件；本地策略为空操作。
	Resolve(ctx context.Context, task *model.Task) (path string, cleanup func(), err error)
}
