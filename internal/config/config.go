package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// 输入来源策略
const (
	SourceTypeLocal = "local"
	SourceTypeOSS   = "oss"
)

// Config 应用配置
type Config struct {
	HTTP       HTTPConfig
	Source     SourceConfig
	OSS        OSSConfig
	Callback   CallbackConfig
	Log        LogConfig
	Monitoring MonitoringConfig
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Addr string
}

// SourceConfig 输入来源配置
type SourceConfig struct {
	Type     string // local 或 oss，部署时固定
	InputDir string // local 策略的挂载输入目录
	TempDir  string // oss 策略的临时文件目录
}

// OSSConfig 对象存储配置
type OSSConfig struct {
	AccessKeyID     string
	AccessKeySecret string
	Endpoint        string
	BucketName      string
}

// CallbackConfig 回调配置
type CallbackConfig struct {
	URL     string // 全局回调 URL（可选，任务级优先）
	Timeout time.Duration

	// MaxRetries 历史遗留配置：加载但无代码路径使用，回调始终只尝试一次
	MaxRetries int
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string
	Production bool
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	Enabled bool
}

// Load 加载配置：优先环境变量，其次 .env 文件，最后代码内默认值
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AddConfigPath("../..")

	// 允许从环境变量读取（优先级最高）
	v.AutomaticEnv()

	// 读取配置文件（如果存在）
	_ = v.ReadInConfig()

	cfg := &Config{}

	// HTTP 配置
	cfg.HTTP.Addr = v.GetString("HTTP_ADDR")
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8000"
	}

	// 输入来源配置
	cfg.Source.Type = v.GetString("SOURCE_TYPE")
	if cfg.Source.Type == "" {
		cfg.Source.Type = SourceTypeLocal
	}

	cfg.Source.InputDir = v.GetString("INPUT_DIR")
	if cfg.Source.InputDir == "" {
		cfg.Source.InputDir = "/data/input"
	}

	cfg.Source.TempDir = v.GetString("TEMP_DIR")
	if cfg.Source.TempDir == "" {
		cfg.Source.TempDir = "/tmp/markitdown"
	}

	// OSS 配置
	cfg.OSS.AccessKeyID = v.GetString("OSS_ACCESS_KEY_ID")
	cfg.OSS.AccessKeySecret = v.GetString("OSS_ACCESS_KEY_SECRET")
	cfg.OSS.Endpoint = v.GetString("OSS_ENDPOINT")
	cfg.OSS.BucketName = v.GetString("OSS_BUCKET_NAME")
	if cfg.OSS.BucketName == "" {
		cfg.OSS.BucketName = "markitdown"
	}

	// 回调配置
	cfg.Callback.URL = v.GetString("CALLBACK_URL")

	// 历史契约是纯数字秒（CALLBACK_TIMEOUT=30），同时兼容 Go 时长格式（30s）。
	// 纯数字不能直接走 GetDuration：cast 会按纳秒解析。
	if raw := v.GetString("CALLBACK_TIMEOUT"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil {
			cfg.Callback.Timeout = time.Duration(secs) * time.Second
		} else {
			cfg.Callback.Timeout = v.GetDuration("CALLBACK_TIMEOUT")
		}
	}
	if cfg.Callback.Timeout <= 0 {
		cfg.Callback.Timeout = 30 * time.Second
	}

	cfg.Callback.MaxRetries = v.GetInt("MAX_RETRIES")
	if cfg.Callback.MaxRetries == 0 {
		cfg.Callback.MaxRetries = 3
	}

	// 日志配置
	cfg.Log.Level = v.GetString("LOG_LEVEL")
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.Production = v.GetBool("LOG_PRODUCTION")

	// 监控配置
	cfg.Monitoring.Enabled = true
	if v.IsSet("MONITORING_ENABLED") {
		cfg.Monitoring.Enabled = v.GetBool("MONITORING_ENABLED")
	}

	return cfg, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	switch c.Source.Type {
	case SourceTypeLocal:
		if c.Source.InputDir == "" {
			return fmt.Errorf("INPUT_DIR is required for local source")
		}
	case SourceTypeOSS:
		if c.OSS.AccessKeyID == "" || c.OSS.AccessKeySecret == "" {
			return fmt.Errorf("OSS_ACCESS_KEY_ID and OSS_ACCESS_KEY_SECRET are required for oss source")
		}
		if c.OSS.Endpoint == "" {
			return fmt.Errorf("OSS_ENDPOINT is required for oss source")
		}
		if c.OSS.BucketName == "" {
			return fmt.Errorf("OSS_BUCKET_NAME is required for oss source")
		}
		if c.Source.TempDir == "" {
			return fmt.Errorf("TEMP_DIR is required for oss source")
		}
	default:
		return fmt.Errorf("SOURCE_TYPE must be %q or %q, got %q", SourceTypeLocal, SourceTypeOSS, c.Source.Type)
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}

	return nil
}
