package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agakong/markitdown/internal/logger"
	"github.com/agakong/markitdown/internal/metrics"
)

// Payload 回调 POST 请求体
type Payload struct {
	TaskID    string    `json:"task_id"`
	Status    string    `json:"status"`
	Filename  string    `json:"filename"`
	Markdown  string    `json:"markdown,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Dispatcher 任务结果回调分发器。
// 每个任务结果只尝试一次投递，无重试、无送达保证；
// 投递结果只记日志，绝不回写任务状态。
type Dispatcher struct {
	httpClient *http.Client
}

// NewDispatcher 创建分发器，timeout 为单次回调的整体超时
func NewDispatcher(timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Notify 发送一次回调 POST。url 为空时静默跳过（低级别日志）。
func (d *Dispatcher) Notify(ctx context.Context, url string, p Payload) {
	log := logger.WithTaskID(p.TaskID)

	if url == "" {
		log.Debug().Msg("未配置回调 URL，跳过回调")
		return
	}

	if err := d.post(ctx, url, p); err != nil {
		metrics.RecordCallback("fail")
		log.Error().Err(err).Str("callback_url", url).Msg("回调发送失败")
		return
	}

	metrics.RecordCallback("success")
	log.Info().Str("callback_url", url).Msg("回调发送成功")
}

func (d *Dispatcher) post(ctx context.Context, url string, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
