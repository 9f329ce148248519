package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agakong/markitdown/internal/callback"
	"github.com/agakong/markitdown/internal/config"
	"github.com/agakong/markitdown/internal/converter"
	"github.com/agakong/markitdown/internal/healthcheck"
	"github.com/agakong/markitdown/internal/logger"
	httpserver "github.com/agakong/markitdown/internal/server"
	"github.com/agakong/markitdown/internal/service"
	"github.com/agakong/markitdown/internal/source"
)

// @title MarkItDown API
// @version 1.0.0
// @description 文件转 Markdown 服务 - 提交本地或 OSS 文件，队列化转换并回调通知
// @contact.name MarkItDown Support
// @license.name MIT
// @schemes http https
// @host localhost:8000

func main() {
	// 初始化结构化日志（开发模式）
	logger.Init(false)
	defer logger.Sync()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logger.L.Fatal().Err(err).Msg("加载配置失败")
	}

	// 验证配置
	if err := cfg.Validate(); err != nil {
		logger.L.Fatal().Err(err).Msg("配置验证失败")
	}

	// 按配置切换日志模式与级别
	if cfg.Log.Production {
		logger.Init(true)
	}
	logger.SetLevel(cfg.Log.Level)

	logger.L.Info().
		Str("http", cfg.HTTP.Addr).
		Str("source", cfg.Source.Type).
		Msg("服务启动")

	// 按部署策略构建输入来源
	var src source.Source
	switch cfg.Source.Type {
	case config.SourceTypeLocal:
		src, err = source.NewLocal(cfg.Source.InputDir)
	case config.SourceTypeOSS:
		src, err = source.NewOSS(source.OSSConfig{
			Endpoint:        cfg.OSS.Endpoint,
			AccessKeyID:     cfg.OSS.AccessKeyID,
			AccessKeySecret: cfg.OSS.AccessKeySecret,
			BucketName:      cfg.OSS.BucketName,
			TempDir:         cfg.Source.TempDir,
		})
	}
	if err != nil {
		logger.L.Fatal().Err(err).Str("source", cfg.Source.Type).Msg("初始化输入来源失败")
	}

	// 组装转换服务并启动后台 worker
	dispatcher := callback.NewDispatcher(cfg.Callback.Timeout)
	svc := service.New(src, converter.New(), dispatcher, cfg.Callback.URL)
	svc.Start()

	// 创建健康检查器（就绪探针需要临时目录可写）
	if err := os.MkdirAll(cfg.Source.TempDir, 0o755); err != nil {
		logger.L.Fatal().Err(err).Str("dir", cfg.Source.TempDir).Msg("创建临时目录失败")
	}
	healthChecker := healthcheck.NewHealthChecker(svc, cfg.Source.TempDir)
	if pinger, ok := src.(healthcheck.Pinger); ok {
		healthChecker = healthChecker.WithPinger(pinger)
	}

	httpSrv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpserver.NewRouter(httpserver.Deps{
			Service:        svc,
			HealthChecker:  healthChecker,
			MetricsEnabled: cfg.Monitoring.Enabled,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.L.Info().Str("addr", cfg.HTTP.Addr).Msg("HTTP 服务监听")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L.Fatal().Err(err).Msg("HTTP 服务错误")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 先停 HTTP 入口，再关队列等 worker 把在途任务处理完
	_ = httpSrv.Shutdown(shutdownCtx)
	if err := svc.Shutdown(shutdownCtx); err != nil {
		logger.L.Warn().Err(err).Msg("worker 未在期限内退出")
	}
	logger.L.Info().Msg("服务已优雅关闭")
}
