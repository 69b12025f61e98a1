package payroll

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Policy 计薪策略
//
// 所有计薪入口（打卡落库、今日统计、报表、工资单）统一经由 Engine，
// 因此策略只在这里生效一次。
type Policy string

const (
	// PolicyStacked 日加班（超出阈值部分按倍率）+ 整日节假日倍率
	PolicyStacked Policy = "stacked"
	// PolicyBase 工时 × 时薪，不叠加任何倍率
	PolicyBase Policy = "base"
)

// ParsePolicy 解析策略名
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyStacked, PolicyBase:
		return Policy(s), nil
	}
	return "", fmt.Errorf("未知的计薪策略 %q", s)
}

// EngineConfig 计薪参数
type EngineConfig struct {
	Policy                 Policy
	OvertimeThresholdHours decimal.Decimal
	OvertimeMultiplier     decimal.Decimal
	HolidayMultiplier      decimal.Decimal
}

// DefaultEngineConfig 默认参数：8 小时阈值、加班 1.5 倍、节假日整日 2 倍
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Policy:                 PolicyStacked,
		OvertimeThresholdHours: decimal.NewFromInt(8),
		OvertimeMultiplier:     decimal.NewFromFloat(1.5),
		HolidayMultiplier:      decimal.NewFromInt(2),
	}
}

// Engine 计薪引擎
type Engine struct {
	cfg EngineConfig
}

// NewEngine 创建计薪引擎
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Policy == "" {
		cfg.Policy = PolicyStacked
	}
	return &Engine{cfg: cfg}
}

// Config 返回引擎参数
func (e *Engine) Config() EngineConfig { return e.cfg }

// IntervalEarnings 单条记录的基础计薪：max(0, hours × rate)，保留两位小数
// 这是落库到记录 earnings 字段的值（时薪快照下的基础金额）
func (e *Engine) IntervalEarnings(hours float64, rate decimal.Decimal) decimal.Decimal {
	amount := decimal.NewFromFloat(hours).Mul(rate).Round(2)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// DayEntry 参与单日计薪的一条记录
type DayEntry struct {
	Hours    float64
	Rate     decimal.Decimal
	WorkType WorkType
	ClockIn  time.Time
}

// DayValuation 单日计薪结果
type DayValuation struct {
	Hours          float64
	RegularHours   float64
	OvertimeHours  float64
	HolidayApplied bool
	Gross          decimal.Decimal
	// Shares 各记录分摊金额，与输入顺序一致，合计等于 Gross
	Shares []decimal.Decimal
}

// ValueDay 对同一天的记录计薪
//
// stacked 策略：按上班时间先后累计工时，前 阈值 小时按各自时薪，
// 超出部分按 时薪 × 加班倍率；任一记录为 holiday 时整日合计（含加班）再乘节假日倍率。
// base 策略：各记录 hours × rate 求和。
func (e *Engine) ValueDay(entries []DayEntry) DayValuation {
	v := DayValuation{
		Gross:  decimal.Zero,
		Shares: make([]decimal.Decimal, len(entries)),
	}
	if len(entries) == 0 {
		return v
	}

	order := make([]int, len(entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return entries[order[a]].ClockIn.Before(entries[order[b]].ClockIn)
	})

	if e.cfg.Policy == PolicyBase {
		for _, i := range order {
			en := entries[i]
			hours := nonNegative(en.Hours)
			v.Hours += hours
			v.RegularHours += hours
			v.Shares[i] = e.IntervalEarnings(hours, en.Rate)
			v.Gross = v.Gross.Add(v.Shares[i])
		}
		return v
	}

	multiplier := decimal.NewFromInt(1)
	for _, en := range entries {
		if en.WorkType == WorkTypeHoliday {
			v.HolidayApplied = true
			multiplier = e.cfg.HolidayMultiplier
			break
		}
	}

	remaining := e.cfg.OvertimeThresholdHours
	for _, i := range order {
		en := entries[i]
		hours := decimal.NewFromFloat(nonNegative(en.Hours))

		regular := decimal.Min(hours, remaining)
		if regular.IsNegative() {
			regular = decimal.Zero
		}
		overtime := hours.Sub(regular)
		remaining = remaining.Sub(regular)

		share := regular.Mul(en.Rate).
			Add(overtime.Mul(en.Rate).Mul(e.cfg.OvertimeMultiplier)).
			Mul(multiplier).
			Round(2)
		if share.IsNegative() {
			share = decimal.Zero
		}

		v.Shares[i] = share
		v.Gross = v.Gross.Add(share)
		v.Hours += nonNegative(en.Hours)
		v.RegularHours += regular.InexactFloat64()
		v.OvertimeHours += overtime.InexactFloat64()
	}
	return v
}

// TotalDeductions 扣款合计
func TotalDeductions(deductions []Deduction) decimal.Decimal {
	total := decimal.Zero
	for _, d := range deductions {
		total = total.Add(d.Amount)
	}
	return total
}

// NetEarnings 实发 = 应发 − Σ扣款
// 扣款只在报表/工资单层计算，不回写任何记录
func NetEarnings(gross decimal.Decimal, deductions []Deduction) decimal.Decimal {
	return gross.Sub(TotalDeductions(deductions))
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// EstimateHours 按工作类型汇总的工时（不区分日期）
type EstimateHours struct {
	Normal  float64
	Sunday  float64
	Holiday float64
}

// EstimateLine 单一工作类型的估算
type EstimateLine struct {
	WorkType WorkType
	Hours    float64
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

// Estimate 工资估算结果
type Estimate struct {
	Lines           []EstimateLine
	Gross           decimal.Decimal
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal
}

// Estimate 按三档时薪估算应发与实发
//
// 工时未按天拆分，无法判断日加班，因此只计基础金额；
// stacked 策略下节假日工时仍乘整日节假日倍率。
func (e *Engine) Estimate(h EstimateHours, rates Rates, deductions []Deduction) Estimate {
	est := Estimate{Gross: decimal.Zero}
	for _, l := range []struct {
		wt    WorkType
		hours float64
	}{
		{WorkTypeNormal, h.Normal},
		{WorkTypeSunday, h.Sunday},
		{WorkTypeHoliday, h.Holiday},
	} {
		hours := nonNegative(l.hours)
		rate := RateFor(l.wt, rates)
		amount := e.IntervalEarnings(hours, rate)
		if e.cfg.Policy == PolicyStacked && l.wt == WorkTypeHoliday {
			amount = amount.Mul(e.cfg.HolidayMultiplier).Round(2)
		}
		est.Lines = append(est.Lines, EstimateLine{WorkType: l.wt, Hours: hours, Rate: rate, Amount: amount})
		est.Gross = est.Gross.Add(amount)
	}
	est.TotalDeductions = TotalDeductions(deductions)
	est.Net = NetEarnings(est.Gross, deductions)
	return est
}
