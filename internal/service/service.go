package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AJ4200/whatiearn/config"
	"github.com/AJ4200/whatiearn/internal/payroll"
	"github.com/AJ4200/whatiearn/internal/repository"
	"github.com/AJ4200/whatiearn/pkg/jwt"
	"github.com/AJ4200/whatiearn/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	Clock      ClockService
	WorkRecord WorkRecordService
	Holiday    HolidayService
	Calendar   CalendarService
	Settings   SettingsService
	Report     ReportService
	Export     ExportService
}

// Payroll 计薪相关的共享组件（无状态，可在各 Service 间共享）
type Payroll struct {
	Classifier *payroll.Classifier
	Engine     *payroll.Engine
	Aggregator *payroll.Aggregator
	Periods    payroll.PeriodResolver
	Location   *time.Location
	Clock      payroll.Clock
	Defaults   SettingsDefaults
}

// SettingsDefaults 首次读取设置时写入的默认值
type SettingsDefaults struct {
	Rates       payroll.Rates
	CompanyName string
}

// NewPayroll 由配置构建计薪组件；clock 为 nil 时使用系统时钟
func NewPayroll(cfg *config.PayrollConfig, clock payroll.Clock) (*Payroll, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("加载计薪时区失败: %w", err)
	}
	table, err := cfg.PublicHolidays()
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = payroll.SystemClock
	}

	classifier := payroll.NewClassifier(table)
	engine := payroll.NewEngine(cfg.EngineConfig())

	return &Payroll{
		Classifier: classifier,
		Engine:     engine,
		Aggregator: payroll.NewAggregator(engine, classifier),
		Periods:    payroll.NewPeriodResolver(cfg.PayPeriodStartDay),
		Location:   loc,
		Clock:      clock,
		Defaults: SettingsDefaults{
			Rates:       cfg.DefaultRates(),
			CompanyName: cfg.DefaultCompanyName,
		},
	}, nil
}

// Today 当前计薪时区下的日期
func (p *Payroll) Today() time.Time {
	return payroll.DateOf(p.Clock(), p.Location)
}

// NewService 创建 Service 聚合
// rdb 可为 nil（未启用 Redis 时注销不写黑名单）
func NewService(
	repo *repository.Repository,
	pr *Payroll,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	settings := NewSettingsService(repo, pr, logger)
	report := NewReportService(repo, pr, logger)

	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, rdb, logger),
		Clock:      NewClockService(repo, pr, logger),
		WorkRecord: NewWorkRecordService(repo, pr, logger),
		Holiday:    NewHolidayService(repo, logger),
		Calendar:   NewCalendarService(repo, pr, logger),
		Settings:   settings,
		Report:     report,
		Export:     NewExportService(report, pr, logger),
	}
}
