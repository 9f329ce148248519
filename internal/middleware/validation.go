package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

const (
	// MaxPayloadSize 最大请求体大小（1MB，提交请求只含路径与回调 URL）
	MaxPayloadSize = 1 * 1024 * 1024
)

var (
	// TaskIDRegex TaskID 正则（task_ 前缀 + 12 位 hex）
	TaskIDRegex = regexp.MustCompile(`^task_[0-9a-f]{12}$`)
)

// PayloadSizeLimit 请求体大小限制中间件
func PayloadSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "请求体过大，最大允许 1MB",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// ValidateTaskID 验证 Task ID 格式。
// 仅供日志与工具使用——状态查询路由不做格式拦截，
// 任意字符串查询都由状态表合成 failed 记录兜底。
func ValidateTaskID(taskID string) bool {
	return TaskIDRegex.MatchString(taskID)
}

// CORSMiddleware CORS 中间件（内部系统可选）
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
