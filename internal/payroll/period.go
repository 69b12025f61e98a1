package payroll

import (
	"fmt"
	"time"
)

// DefaultPayPeriodStartDay 发薪周期起始日：每月 21 日至次月 20 日
const DefaultPayPeriodStartDay = 21

// DateRange 闭区间日期范围 [From, To]
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange 构造日期范围，结束早于开始时报错
func NewDateRange(from, to time.Time) (DateRange, error) {
	r := DateRange{From: dateOnly(from), To: dateOnly(to)}
	if r.To.Before(r.From) {
		return DateRange{}, ErrInvalidRange
	}
	return r, nil
}

// Contains 日期是否在范围内
func (r DateRange) Contains(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(r.From) && !d.After(r.To)
}

// ContainsKey 日期键是否在范围内
func (r DateRange) ContainsKey(key string) bool {
	return key >= DateKey(r.From) && key <= DateKey(r.To)
}

// Days 范围内的每一天（含首尾）
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// String 形如 [2025-01-01, 2025-01-31]
func (r DateRange) String() string {
	return "[" + DateKey(r.From) + ", " + DateKey(r.To) + "]"
}

// PayPeriod 发薪周期
type PayPeriod struct {
	Start time.Time
	End   time.Time
	Label string
}

// Range 转为日期范围
func (p PayPeriod) Range() DateRange {
	return DateRange{From: p.Start, To: p.End}
}

// PeriodResolver 发薪周期计算器
type PeriodResolver struct {
	startDay int
}

// NewPeriodResolver startDay 取值 1..28，超出时回落到默认值 21
func NewPeriodResolver(startDay int) PeriodResolver {
	if startDay < 1 || startDay > 28 {
		startDay = DefaultPayPeriodStartDay
	}
	return PeriodResolver{startDay: startDay}
}

// StartDay 周期起始日
func (r PeriodResolver) StartDay() int { return r.startDay }

// For 返回包含 date 的发薪周期
//
// date.Day() < startDay：上月 startDay .. 本月 startDay-1
// 否则：本月 startDay .. 次月 startDay-1
// 跨年（12 月 → 1 月）由 time.Date 的月份归一化处理。
func (r PeriodResolver) For(date time.Time) PayPeriod {
	date = dateOnly(date)
	y, m, d := date.Date()

	startMonth := m
	if d < r.startDay {
		startMonth = m - 1
	}
	start := time.Date(y, startMonth, r.startDay, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	return PayPeriod{
		Start: start,
		End:   end,
		Label: periodLabel(start, end),
	}
}

// Shift 相对 p 前后移动 n 个周期（n<0 向前）
func (r PeriodResolver) Shift(p PayPeriod, n int) PayPeriod {
	if n == 0 {
		return p
	}
	return r.For(p.Start.AddDate(0, n, 0))
}

// PayPeriodFor 使用默认起始日（21 日）计算发薪周期
func PayPeriodFor(date time.Time) PayPeriod {
	return NewPeriodResolver(DefaultPayPeriodStartDay).For(date)
}

func periodLabel(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
}

// ── 报表粒度 ──

// Granularity 报表统计粒度
type Granularity string

const (
	GranularityWeek      Granularity = "week"
	GranularityMonth     Granularity = "month"
	GranularityYear      Granularity = "year"
	GranularityPayPeriod Granularity = "payperiod"
)

// ParseGranularity 解析粒度，空串按 week 处理
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case "":
		return GranularityWeek, nil
	case GranularityWeek, GranularityMonth, GranularityYear, GranularityPayPeriod:
		return g, nil
	}
	return "", fmt.Errorf("未知的统计粒度 %q", s)
}

// RangeFor 计算包含 date 的统计范围；周从周一开始
func (r PeriodResolver) RangeFor(g Granularity, date time.Time) DateRange {
	date = dateOnly(date)
	y, m, _ := date.Date()

	switch g {
	case GranularityMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		return DateRange{From: start, To: start.AddDate(0, 1, -1)}
	case GranularityYear:
		return DateRange{
			From: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	case GranularityPayPeriod:
		return r.For(date).Range()
	default:
		daysSinceMonday := (int(date.Weekday()) + 6) % 7
		start := date.AddDate(0, 0, -daysSinceMonday)
		return DateRange{From: start, To: start.AddDate(0, 0, 6)}
	}
}
