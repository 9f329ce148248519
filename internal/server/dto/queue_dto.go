package dto

// QueueStatusResponse 队列状态响应
type QueueStatusResponse struct {
	QueueSize   int  `json:"queue_size" example:"3"`
	WorkerAlive bool `json:"worker_alive" example:"true"`
	TotalTasks  int  `json:"total_tasks" example:"42"`
}
