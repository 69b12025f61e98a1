// Package app 组装配置、日志、数据库、Redis 与各 Service，供 HTTP 服务与命令行共用
package app

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AJ4200/whatiearn/config"
	"github.com/AJ4200/whatiearn/internal/model"
	"github.com/AJ4200/whatiearn/internal/repository"
	"github.com/AJ4200/whatiearn/internal/service"
	"github.com/AJ4200/whatiearn/pkg/database"
	"github.com/AJ4200/whatiearn/pkg/jwt"
	applogger "github.com/AJ4200/whatiearn/pkg/logger"
	"github.com/AJ4200/whatiearn/pkg/redis"
)

// App 应用依赖
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *gorm.DB
	Redis   *redis.Client // 未启用或连接失败时为 nil
	JWT     *jwt.Manager
	Repo    *repository.Repository
	Payroll *service.Payroll
	Service *service.Service
}

// Options 启动选项
type Options struct {
	ConfigPath string
	// Redis 为 false 时跳过 Redis（命令行不需要黑名单与限流）
	Redis bool
}

// New 按顺序初始化：.env → 配置 → 日志 → 数据库 → Redis → Service
func New(opts Options) (*App, error) {
	// .env 仅用于本地开发，不存在时忽略
	_ = godotenv.Load()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	var rdb *redis.Client
	if opts.Redis && cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			// 降级运行，不中断启动
			logger.Warn("Redis 连接失败，Token 黑名单与登录限流将不可用", zap.Error(err))
			rdb = nil
		}
	}

	pr, err := service.NewPayroll(&cfg.Payroll, nil)
	if err != nil {
		return nil, err
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)

	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Redis:   rdb,
		JWT:     jwtMgr,
		Repo:    repo,
		Payroll: pr,
		Service: service.NewService(repo, pr, jwtMgr, rdb, logger),
	}, nil
}

// Migrate 执行建表 / 迁移
func (a *App) Migrate() error {
	return database.Migrate(a.DB, a.Config.Database.Driver, a.Logger, model.AllModels()...)
}

// Ping 检查数据库与 Redis 连通性
func (a *App) Ping(ctx context.Context) error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	if a.Redis != nil {
		return a.Redis.Ping(ctx)
	}
	return nil
}

// Close 释放数据库与 Redis 连接
func (a *App) Close() {
	if sqlDB, _ := a.DB.DB(); sqlDB != nil {
		sqlDB.Close()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	_ = a.Logger.Sync()
}
