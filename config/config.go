package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/AJ4200/whatiearn/internal/payroll"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Payroll  PayrollConfig  `mapstructure:"payroll"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig 数据库配置
// Driver 为 postgres 时使用 Host..Timezone；为 sqlite 时使用 Path
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Path            string `mapstructure:"path"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// MigrateURL golang-migrate 使用的连接 URL
func (c *DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// RedisConfig Redis 缓存配置
// Enabled=false 时以降级模式运行（不启用 Token 黑名单与登录限流）
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	Cookie         CookieConfig  `mapstructure:"cookie"`
	LoginRateLimit int           `mapstructure:"login_rate_limit"` // 每 IP 每分钟登录尝试次数
}

// CookieConfig Cookie 安全配置
type CookieConfig struct {
	Name     string `mapstructure:"name"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
	Domain   string `mapstructure:"domain"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PayrollConfig 计薪配置
type PayrollConfig struct {
	Timezone               string  `mapstructure:"timezone"`
	ValuationPolicy        string  `mapstructure:"valuation_policy"`
	OvertimeThresholdHours float64 `mapstructure:"overtime_threshold_hours"`
	OvertimeMultiplier     float64 `mapstructure:"overtime_multiplier"`
	HolidayMultiplier      float64 `mapstructure:"holiday_multiplier"`
	PayPeriodStartDay      int     `mapstructure:"pay_period_start_day"`
	PublicHolidaysFile     string  `mapstructure:"public_holidays_file"`
	DefaultNormalRate      float64 `mapstructure:"default_normal_rate"`
	DefaultSundayRate      float64 `mapstructure:"default_sunday_rate"`
	DefaultHolidayRate     float64 `mapstructure:"default_holiday_rate"`
	DefaultCompanyName     string  `mapstructure:"default_company_name"`
}

// Location 计薪时区，记录日期按此时区归属
func (p *PayrollConfig) Location() (*time.Location, error) {
	return time.LoadLocation(p.Timezone)
}

// EngineConfig 转为计薪引擎参数
func (p *PayrollConfig) EngineConfig() payroll.EngineConfig {
	return payroll.EngineConfig{
		Policy:                 payroll.Policy(p.ValuationPolicy),
		OvertimeThresholdHours: decimal.NewFromFloat(p.OvertimeThresholdHours),
		OvertimeMultiplier:     decimal.NewFromFloat(p.OvertimeMultiplier),
		HolidayMultiplier:      decimal.NewFromFloat(p.HolidayMultiplier),
	}
}

// DefaultRates 新用户的默认时薪
func (p *PayrollConfig) DefaultRates() payroll.Rates {
	return payroll.Rates{
		Normal:  decimal.NewFromFloat(p.DefaultNormalRate),
		Sunday:  decimal.NewFromFloat(p.DefaultSundayRate),
		Holiday: decimal.NewFromFloat(p.DefaultHolidayRate),
	}
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "whatiearn.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "whatiearn")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)  // 60分钟
	v.SetDefault("db.conn_max_idle_time", 30) // 30分钟

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "") // 无默认值，需由配置文件或 WIE_AUTH_JWT_SECRET 提供
	v.SetDefault("auth.access_token_ttl", "24h")
	v.SetDefault("auth.login_rate_limit", 10)
	v.SetDefault("auth.cookie.name", "token")
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "Lax")
	v.SetDefault("auth.cookie.domain", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("payroll.timezone", "Africa/Johannesburg")
	v.SetDefault("payroll.valuation_policy", string(payroll.PolicyStacked))
	v.SetDefault("payroll.overtime_threshold_hours", 8)
	v.SetDefault("payroll.overtime_multiplier", 1.5)
	v.SetDefault("payroll.holiday_multiplier", 2)
	v.SetDefault("payroll.pay_period_start_day", payroll.DefaultPayPeriodStartDay)
	v.SetDefault("payroll.public_holidays_file", "")
	v.SetDefault("payroll.default_normal_rate", 0)
	v.SetDefault("payroll.default_sunday_rate", 0)
	v.SetDefault("payroll.default_holiday_rate", 0)
	v.SetDefault("payroll.default_company_name", "WhatIEarn")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("WIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Database.Driver != DriverPostgres && c.Database.Driver != DriverSQLite {
		return fmt.Errorf("配置校验失败: db.driver 仅支持 postgres 或 sqlite")
	}
	return c.Payroll.Validate()
}

// Validate 校验计薪配置
func (p *PayrollConfig) Validate() error {
	if _, err := payroll.ParsePolicy(p.ValuationPolicy); err != nil {
		return fmt.Errorf("配置校验失败: payroll.valuation_policy: %w", err)
	}
	if _, err := p.Location(); err != nil {
		return fmt.Errorf("配置校验失败: payroll.timezone 无效: %w", err)
	}
	if p.OvertimeThresholdHours < 0 || p.OvertimeMultiplier < 0 || p.HolidayMultiplier < 0 {
		return fmt.Errorf("配置校验失败: payroll 阈值与倍率不能为负数")
	}
	if p.PayPeriodStartDay < 1 || p.PayPeriodStartDay > 28 {
		return fmt.Errorf("配置校验失败: payroll.pay_period_start_day 必须在 1-28 之间")
	}
	if p.DefaultNormalRate < 0 || p.DefaultSundayRate < 0 || p.DefaultHolidayRate < 0 {
		return fmt.Errorf("配置校验失败: 默认时薪不能为负数")
	}
	return nil
}
