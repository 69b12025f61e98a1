package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/AJ4200/whatiearn/internal/api/handler"
	"github.com/AJ4200/whatiearn/internal/api/router"
	"github.com/AJ4200/whatiearn/internal/app"
)

func main() {
	// 1. 初始化依赖（配置、日志、数据库、Redis、Service）
	a, err := app.New(app.Options{ConfigPath: os.Getenv("WIE_CONFIG"), Redis: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "应用初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	cfg, logger := a.Config, a.Logger
	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("payroll_timezone", cfg.Payroll.Timezone),
	)

	// 2. 执行数据库迁移
	if err := a.Migrate(); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 3. Handler 与路由
	h := handler.NewHandler(a.Service, &cfg.Auth, a.Ping)
	engine := router.Setup(cfg, h, a.JWT, a.Redis, logger)

	// 4. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 5. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
}
