// @title dvsacheck API
// @version 1.0.0
// @description Checks DVSA practical driving test availability through an automated browser session.
// @BasePath /
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dvsacheck/pkg/config"
	"dvsacheck/pkg/dvsa"
	"dvsacheck/pkg/handlers"
	"dvsacheck/pkg/logger"
	"dvsacheck/pkg/notifier"
	"dvsacheck/pkg/scheduler"
	"dvsacheck/pkg/server"
)

func main() {
	var (
		configPath   = flag.String("config", "", "配置文件路径")
		testTelegram = flag.Bool("test-telegram", false, "发送一条 Telegram 测试消息后退出")
		runJob       = flag.String("run-job", "", "立即执行指定的定时检查任务一次后退出")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(logger.Options{
		Development: cfg.App.Environment == "development",
		Level:       cfg.App.LogLevel,
		FilePath:    cfg.App.LogFile,
	}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	if err := cfg.ValidateConfig(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)

	if path := dvsa.ResolveChromePath(cfg.Browser.ChromePath); path != "" {
		logger.Info("Using Chrome", zap.String("path", path))
	} else {
		logger.Warn("Chrome not found, relying on chromedp default lookup")
	}

	checker := dvsa.NewCheckService(cfg.Browser, cfg.Site)
	telegram := notifier.NewTelegramNotifier(cfg.Telegram)

	if *testTelegram {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegram.TestConnection(ctx); err != nil {
			logger.Fatal("Telegram test failed", zap.Error(err))
		}
		logger.Info("✅ Telegram test message sent")
		return
	}

	var watcher *scheduler.Watcher
	if cfg.Watch.Enabled || *runJob != "" {
		var alerts scheduler.Notifier
		if cfg.Telegram.Enabled {
			alerts = telegram
		}
		watcher, err = scheduler.NewWatcher(cfg.Watch, checker, alerts)
		if err != nil {
			logger.Fatal("Failed to create watcher", zap.Error(err))
		}
	}

	if *runJob != "" {
		if err := watcher.RunJob(context.Background(), *runJob); err != nil {
			logger.Fatal("Watch job failed", zap.String("job", *runJob), zap.Error(err))
		}
		for _, state := range watcher.Jobs() {
			if state.Name == *runJob {
				logger.Info("📊 Watch job result",
					zap.String("job", state.Name),
					zap.Int("slots", state.LastSlotCount),
					zap.Int("notifications", state.Notifications))
			}
		}
		return
	}

	handlerSvc := handlers.NewHandlerService(cfg, checker)
	if watcher != nil {
		handlerSvc.SetWatcher(watcher)
		watcher.Start()
	}

	httpServer := server.NewHTTPServer(cfg, handlerSvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Info("🚗 dvsacheck started",
		zap.String("address", cfg.Server.Address),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("watch", watcher != nil))

	select {
	case <-ctx.Done():
		logger.Info("🛑 Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.GracefulShutdownTimeout)*time.Second)
	defer cancel()

	if watcher != nil {
		if err := watcher.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Watcher shutdown failed", zap.Error(err))
		}
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("👋 dvsacheck stopped")
}
