package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/agakong/markitdown/internal/logger"
	"github.com/agakong/markitdown/internal/model"
)

// OSS 远端对象存储策略：输入引用是配置 bucket 内的对象 key，
// 处理时下载到临时文件，结束后删除。
type OSS struct {
	bucket  *oss.Bucket
	tempDir string
}

// OSSConfig OSS 连接配置
type OSSConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	TempDir         string
}

// NewOSS 创建 OSS 策略客户端并准备临时目录
func NewOSS(cfg OSSConfig) (*OSS, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("创建 OSS 客户端失败: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("获取 OSS bucket 失败: %w", err)
	}

	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建临时目录失败: %w", err)
	}

	return &OSS{bucket: bucket, tempDir: cfg.TempDir}, nil
}

func (s *OSS) Name() string {
	return "oss"
}

// Ping 就绪探针用的 bucket 可达性检查
func (s *OSS) Ping(_ context.Context) error {
	if _, err := s.bucket.Client.GetBucketInfo(s.bucket.BucketName); err != nil {
		return fmt.Errorf("OSS bucket 不可达: %w", err)
	}
	return nil
}

// Stat 提交时的存在性检查是尽力而为的：
// 检查失败或对象缺失只记日志不阻塞提交，权威检查发生在下载时。
func (s *OSS) Stat(_ context.Context, ref string) error {
	exist, err := s.bucket.IsObjectExist(ref)
	if err != nil {
		logger.Warn().Err(err).Str("oss_path", ref).Msg("OSS 对象存在性检查失败，提交继续")
		return nil
	}
	if !exist {
		logger.Warn().Str("oss_path", ref).Msg("OSS 对象暂不存在，提交继续（处理时再次检查）")
	}
	return nil
}

// Resolve 下载对象到按 task_id 命名的临时文件。
// cleanup 无条件删除该文件，删除失败仅记日志。
func (s *OSS) Resolve(_ context.Context, task *model.Task) (string, func(), error) {
	tmpPath := filepath.Join(s.tempDir, tempFilename(task.TaskID, task.Filename))

	cleanup := func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("task_id", task.TaskID).
				Str("path", tmpPath).Msg("删除临时文件失败")
		}
	}

	if err := s.bucket.GetObjectToFile(task.Filename, tmpPath); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("下载 OSS 对象失败 %s: %w", task.Filename, err)
	}

	return tmpPath, cleanup, nil
}

// tempFilename 临时文件名：task_id + 原始扩展名（无扩展名时用 .tmp 兜底）
func tempFilename(taskID, ref string) string {
	ext := filepath.Ext(ref)
	if ext == "" {
		ext = ".tmp"
	}
	return taskID + ext
}
