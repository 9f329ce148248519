package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client HTTP 客户端，用于与转换服务通信
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient 创建客户端
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ConvertRequest 提交转换请求。
// 本地部署填 Filename（输入目录下的相对路径），
// OSS 部署填 OSSPath（bucket 内对象 key）。
type ConvertRequest struct {
	Filename    string `json:"filename,omitempty"`
	OSSPath     string `json:"oss_path,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// ConvertResponse 提交转换响应
type ConvertResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TaskStatus 任务状态
type TaskStatus struct {
	TaskID      string     `json:"task_id"`
	Status      string     `json:"status"`
	Filename    string     `json:"filename"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Error       *string    `json:"error"`
}

// Terminal 任务是否已到终态
func (s TaskStatus) Terminal() bool {
	return s.Status == "completed" || s.Status == "failed"
}

// TaskList 任务列表响应
type TaskList struct {
	Total int          `json:"total"`
	Tasks []TaskStatus `json:"tasks"`
}

// QueueStatus 队列状态响应
type QueueStatus struct {
	QueueSize   int  `json:"queue_size"`
	WorkerAlive bool `json:"worker_alive"`
	TotalTasks  int  `json:"total_tasks"`
}

// Convert 提交转换任务
func (c *Client) Convert(ctx context.Context, req ConvertRequest) (*ConvertResponse, error) {
	var result ConvertResponse
	if err := c.post(ctx, "/convert", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTaskStatus 查询任务状态。
// 服务端对未知 ID 返回合成的 failed 记录，因此不会因 ID 不存在而报错。
func (c *Client) GetTaskStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	var result TaskStatus
	if err := c.get(ctx, "/task/"+taskID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTasks 列出全部任务
func (c *Client) ListTasks(ctx context.Context) (*TaskList, error) {
	var result TaskList
	if err := c.get(ctx, "/tasks", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetQueueStatus 查询队列状态
func (c *Client) GetQueueStatus(ctx context.Context) (*QueueStatus, error) {
	var result QueueStatus
	if err := c.get(ctx, "/queue/status", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// WaitTask 轮询任务直至终态或 ctx 取消
func (c *Client) WaitTask(ctx context.Context, taskID string, interval time.Duration) (*TaskStatus, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.GetTaskStatus(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if status.Terminal() {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
