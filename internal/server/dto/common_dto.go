package dto

// ErrorResponse 通用错误响应
type ErrorResponse struct {
	Error string `json:"error" example:"文件不存在: report.pdf"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status      string `json:"status" example:"healthy"`
	QueueSize   int    `json:"queue_size" example:"0"`
	WorkerAlive bool   `json:"worker_alive" example:"true"`
}

// ServiceInfoResponse 根路径服务信息响应
type ServiceInfoResponse struct {
	Service   string `json:"service" example:"MarkItDown API Server"`
	Version   string `json:"version" example:"1.0.0"`
	Status    string `json:"status" example:"running"`
	Source    string `json:"source" example:"local"`
	QueueSize int    `json:"queue_size" example:"0"`
}
