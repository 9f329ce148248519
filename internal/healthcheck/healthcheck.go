package healthcheck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// ServiceStatus 健康检查需要观察的服务状态
type ServiceStatus interface {
	WorkerAlive() bool
	QueueSize() int
}

// Pinger 远端依赖可达性探测（OSS 策略的输入来源实现它）
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker 健康检查器
type HealthChecker struct {
	svc     ServiceStatus
	tempDir string // 非空时检查临时目录可写（OSS 策略）
	pinger  Pinger // 可选，远端存储就绪检查
}

// NewHealthChecker 创建健康检查器
func NewHealthChecker(svc ServiceStatus, tempDir string) *HealthChecker {
	return &HealthChecker{
		svc:     svc,
		tempDir: tempDir,
	}
}

// WithPinger 挂载远端存储探测
func (h *HealthChecker) WithPinger(p Pinger) *HealthChecker {
	h.pinger = p
	return h
}

// CheckResult 健康检查结果
type CheckResult struct {
	Status  string            `json:"status"` // "ok" or "error"
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version,omitempty"`
}

// LivenessCheck 存活检查（快速返回，不检查依赖）
func (h *HealthChecker) LivenessCheck() CheckResult {
	return CheckResult{
		Status: "ok",
		Checks: map[string]string{
			"service": "running",
		},
	}
}

// ReadinessCheck 就绪检查：worker 存活 + 临时目录可写 + 远端存储可达（如有）
func (h *HealthChecker) ReadinessCheck(ctx context.Context) CheckResult {
	result := CheckResult{
		Checks: make(map[string]string),
	}

	if h.svc != nil {
		if h.svc.WorkerAlive() {
			result.Checks["worker"] = "ok"
		} else {
			result.Checks["worker"] = "error: worker 已退出"
			result.Status = "error"
		}
		result.Checks["queue_size"] = fmt.Sprintf("%d", h.svc.QueueSize())
	}

	if h.tempDir != "" {
		if err := h.checkTempDir(); err != nil {
			result.Checks["temp_dir"] = "error: " + err.Error()
			result.Status = "error"
		} else {
			result.Checks["temp_dir"] = "ok"
		}
	}

	if h.pinger != nil {
		if err := h.pinger.Ping(ctx); err != nil {
			result.Checks["storage"] = "error: " + err.Error()
			result.Status = "error"
		} else {
			result.Checks["storage"] = "ok"
		}
	}

	if result.Status == "" {
		result.Status = "ok"
	}

	return result
}

// checkTempDir 写入并删除探针文件，确认临时目录可用
func (h *HealthChecker) checkTempDir() error {
	probe := filepath.Join(h.tempDir, ".healthcheck")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
