// Package payroll 工时与薪资计算核心：日期分类、工时计算、计薪引擎、发薪周期与报表汇总。
//
// 本包不依赖存储与 HTTP，所有函数均为输入的纯函数；
// 依赖"当前时间"的计算通过 Clock 注入，便于测试固定时钟。
package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout 日期键格式（按天粒度）
const DateLayout = "2006-01-02"

// WorkType 工作类型
type WorkType string

const (
	WorkTypeNormal  WorkType = "normal"
	WorkTypeSunday  WorkType = "sunday"
	WorkTypeHoliday WorkType = "holiday"
)

// Valid 是否为已知工作类型
func (w WorkType) Valid() bool {
	switch w {
	case WorkTypeNormal, WorkTypeSunday, WorkTypeHoliday:
		return true
	}
	return false
}

// ParseWorkType 解析工作类型字符串
func ParseWorkType(s string) (WorkType, error) {
	w := WorkType(s)
	if !w.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidWorkType, s)
	}
	return w, nil
}

// Clock 返回"当前时间"，测试中替换为固定时钟
type Clock func() time.Time

// SystemClock 系统时钟
func SystemClock() time.Time { return time.Now() }

// FixedClock 返回恒定时间的时钟
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// Rates 三档时薪
type Rates struct {
	Normal  decimal.Decimal
	Sunday  decimal.Decimal
	Holiday decimal.Decimal
}

// RateFor 按工作类型取时薪
func RateFor(w WorkType, r Rates) decimal.Decimal {
	switch w {
	case WorkTypeSunday:
		return r.Sunday
	case WorkTypeHoliday:
		return r.Holiday
	default:
		return r.Normal
	}
}

// Deduction 固定扣款项
type Deduction struct {
	Name   string
	Amount decimal.Decimal
}

// ── 日期工具 ──

// ParseDate 解析 YYYY-MM-DD，返回 UTC 零点
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DateOf 取时间点在指定时区下的日历日期（UTC 零点表示）
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey 日期键
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
