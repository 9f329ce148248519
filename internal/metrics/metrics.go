package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "markitdown_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "markitdown_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 任务指标
	TasksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "markitdown_tasks_created_total",
			Help: "Total number of conversion tasks submitted",
		},
	)

	TasksCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "markitdown_tasks_completed_total",
			Help: "Total number of conversion tasks finished",
		},
		[]string{"status"},
	)

	ConversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "markitdown_conversion_duration_seconds",
			Help:    "Document conversion duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
	)

	// 队列指标
	QueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "markitdown_queue_size",
			Help: "Number of tasks waiting in the conversion queue",
		},
	)

	// 回调指标
	CallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "markitdown_callbacks_total",
			Help: "Total number of outbound callback attempts",
		},
		[]string{"result"},
	)

	// 错误指标
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "markitdown_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "type"},
	)
)

// RecordHTTPRequest 记录 HTTP 请求
func RecordHTTPRequest(method, path string, status int, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordTaskCreated 记录任务创建
func RecordTaskCreated() {
	TasksCreatedTotal.Inc()
}

// RecordTaskCompleted 记录任务完成
func RecordTaskCompleted(status string, duration float64) {
	TasksCompletedTotal.WithLabelValues(status).Inc()
	if duration > 0 {
		ConversionDuration.Observe(duration)
	}
}

// UpdateQueueSize 更新队列大小
func UpdateQueueSize(size int) {
	QueueSize.Set(float64(size))
}

// RecordCallback 记录回调结果
func RecordCallback(result string) {
	CallbacksTotal.WithLabelValues(result).Inc()
}

// RecordError 记录错误
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// statusClass 将 HTTP 状态码转为类别
func statusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
