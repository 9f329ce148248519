package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/agakong/markitdown/sdk"
)

// 端到端示例：
//  1. 启动一个本地回调接收服务
//  2. 通过 SDK 提交转换任务（带回调 URL）
//  3. 轮询任务直至终态，打印回调收到的内容
//
// 用法：
//
//	go run ./cmd/example [文件名]
//
// 文件名为服务端输入目录（INPUT_DIR）下的相对路径，默认 example.txt。
func main() {
	if err := loadEnvFile(); err != nil {
		log.Printf("警告: 无法加载 .env 文件: %v（将使用环境变量或默认值）", err)
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8000"
	}

	filename := "example.txt"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	// 启动回调接收服务（随机端口）
	callbackURL, received, closeFn, err := startCallbackReceiver()
	if err != nil {
		log.Fatalf("启动回调接收服务失败: %v", err)
	}
	defer closeFn()
	log.Printf("回调接收地址: %s", callbackURL)

	client := sdk.NewClient(baseURL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// 提交转换任务
	resp, err := client.Convert(ctx, sdk.ConvertRequest{
		Filename:    filename,
		CallbackURL: callbackURL,
	})
	if err != nil {
		log.Fatalf("提交任务失败: %v", err)
	}
	log.Printf("✓ 任务已提交: %s (%s)", resp.TaskID, resp.Status)

	// 轮询任务直至终态
	status, err := client.WaitTask(ctx, resp.TaskID, 500*time.Millisecond)
	if err != nil {
		log.Fatalf("等待任务失败: %v", err)
	}

	switch status.Status {
	case "completed":
		log.Printf("✓ 转换完成: %s", status.Filename)
	case "failed":
		errMsg := ""
		if status.Error != nil {
			errMsg = *status.Error
		}
		log.Printf("✗ 转换失败: %s", errMsg)
	}

	// 等待回调送达（回调是尽力而为的，超时不算失败）
	select {
	case payload := <-received:
		log.Printf("✓ 收到回调: task_id=%s status=%s markdown_len=%d",
			payload.TaskID, payload.Status, len(payload.Markdown))
		if payload.Markdown != "" {
			fmt.Println("---- Markdown ----")
			fmt.Println(payload.Markdown)
		}
	case <-time.After(5 * time.Second):
		log.Println("未收到回调（服务端回调失败不影响任务状态）")
	}
}

// callbackPayload 回调请求体
type callbackPayload struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Markdown string `json:"markdown,omitempty"`
	Error    string `json:"error,omitempty"`
}

// startCallbackReceiver 在随机端口启动回调接收服务
func startCallbackReceiver() (url string, received chan callbackPayload, closeFn func(), err error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, nil, err
	}

	received = make(chan callbackPayload, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/notify", func(w http.ResponseWriter, r *http.Request) {
		var payload callbackPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		select {
		case received <- payload:
		default:
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()

	url = fmt.Sprintf("http://%s/notify", ln.Addr().String())
	closeFn = func() { _ = srv.Close() }
	return url, received, closeFn, nil
}

// loadEnvFile 向上查找 .env 文件
func loadEnvFile() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return fmt.Errorf(".env 文件不存在")
		}
		dir = parent
	}
}
