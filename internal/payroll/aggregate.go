package payroll

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Interval 参与汇总的一条工作记录（与存储模型解耦）
type Interval struct {
	ID         string
	Date       string
	ClockIn    time.Time
	ClockOut   *time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
	WorkType   WorkType
	Rate       decimal.Decimal
	TotalHours float64
	Earnings   decimal.Decimal
	IsActive   bool
	IsManual   bool
}

// DailyEntry 单日汇总
type DailyEntry struct {
	Date          string
	DayType       WorkType
	HolidayName   string
	Hours         float64
	OvertimeHours float64
	Earnings      decimal.Decimal
	Records       int
}

// Summary 区间汇总
type Summary struct {
	TotalHours     float64
	TotalEarnings  decimal.Decimal
	WorkDays       int
	AvgHoursPerDay float64
}

// TypeTotals 单一工作类型的合计
type TypeTotals struct {
	Hours    float64
	Earnings decimal.Decimal
	Records  int
}

// Breakdown 按工作类型拆分
type Breakdown struct {
	Normal  TypeTotals
	Sunday  TypeTotals
	Holiday TypeTotals
}

func (b *Breakdown) slot(w WorkType) *TypeTotals {
	switch w {
	case WorkTypeSunday:
		return &b.Sunday
	case WorkTypeHoliday:
		return &b.Holiday
	default:
		return &b.Normal
	}
}

// InProgress 进行中的区间（不计入历史汇总）
type InProgress struct {
	Interval   Interval
	LiveHours  float64
	OnBreak    bool
	BreakSoFar float64 // 分钟
}

// Report 汇总结果
type Report struct {
	Range           DateRange
	Daily           []DailyEntry
	Summary         Summary
	Breakdown       Breakdown
	Deductions      []Deduction
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal
	InProgress      *InProgress
	// RecordEarnings 已完成记录在其当天的分摊金额（键为记录 ID），合计等于 Summary.TotalEarnings
	RecordEarnings map[string]decimal.Decimal
}

// AggregateInput 汇总入参
type AggregateInput struct {
	Intervals  []Interval
	Holidays   HolidaySet
	Deductions []Deduction
	Range      DateRange
	Now        time.Time
}

// Aggregator 报表汇总器
type Aggregator struct {
	engine     *Engine
	classifier *Classifier
}

// NewAggregator 创建汇总器
func NewAggregator(engine *Engine, classifier *Classifier) *Aggregator {
	return &Aggregator{engine: engine, classifier: classifier}
}

// Aggregate 将区间内已完成的记录按天折叠
//
// 只统计 IsActive=false 的记录；范围内每一天都出现在 Daily 中（无记录时为 0）；
// WorkDays 为至少有一条已完成记录的不同日期数；同一天的记录经 Engine.ValueDay 统一计薪。
func (a *Aggregator) Aggregate(in AggregateInput) Report {
	rep := Report{
		Range:          in.Range,
		Deductions:     in.Deductions,
		Summary:        Summary{TotalEarnings: decimal.Zero},
		RecordEarnings: make(map[string]decimal.Decimal),
		Breakdown: Breakdown{
			Normal:  TypeTotals{Earnings: decimal.Zero},
			Sunday:  TypeTotals{Earnings: decimal.Zero},
			Holiday: TypeTotals{Earnings: decimal.Zero},
		},
	}

	byDate := make(map[string][]Interval)
	for _, iv := range in.Intervals {
		if iv.IsActive {
			if rep.InProgress == nil || iv.ClockIn.After(rep.InProgress.Interval.ClockIn) {
				rep.InProgress = inProgressOf(iv, in.Now)
			}
			continue
		}
		if !in.Range.ContainsKey(iv.Date) {
			continue
		}
		byDate[iv.Date] = append(byDate[iv.Date], iv)
	}

	for _, day := range in.Range.Days() {
		key := DateKey(day)
		// HolidaySet 查询不会返回错误
		info, _ := a.classifier.Classify(context.Background(), day, in.Holidays)

		entry := DailyEntry{
			Date:        key,
			DayType:     info.WorkType,
			HolidayName: info.HolidayName,
			Earnings:    decimal.Zero,
		}

		intervals := byDate[key]
		if len(intervals) > 0 {
			sort.SliceStable(intervals, func(i, j int) bool {
				return intervals[i].ClockIn.Before(intervals[j].ClockIn)
			})
			v := a.engine.ValueDay(dayEntries(intervals))

			entry.Hours = v.Hours
			entry.OvertimeHours = v.OvertimeHours
			entry.Earnings = v.Gross
			entry.Records = len(intervals)

			for i, iv := range intervals {
				t := rep.Breakdown.slot(iv.WorkType)
				t.Hours += nonNegative(iv.TotalHours)
				t.Earnings = t.Earnings.Add(v.Shares[i])
				t.Records++
				rep.RecordEarnings[iv.ID] = v.Shares[i]
			}

			rep.Summary.WorkDays++
			rep.Summary.TotalHours += v.Hours
			rep.Summary.TotalEarnings = rep.Summary.TotalEarnings.Add(v.Gross)
		}
		rep.Daily = append(rep.Daily, entry)
	}

	if rep.Summary.WorkDays > 0 {
		rep.Summary.AvgHoursPerDay = rep.Summary.TotalHours / float64(rep.Summary.WorkDays)
	}

	rep.TotalDeductions = TotalDeductions(in.Deductions)
	rep.Net = rep.Summary.TotalEarnings.Sub(rep.TotalDeductions)
	return rep
}

// ValueToday 今日实时计薪：进行中的区间按 now 计入，进行中的休息同样扣除
func (a *Aggregator) ValueToday(intervals []Interval, now time.Time) DayValuation {
	entries := make([]DayEntry, 0, len(intervals))
	for _, iv := range intervals {
		hours := iv.TotalHours
		if iv.IsActive {
			hours = LiveHours(iv.ClockIn, iv.ClockOut, iv.BreakStart, iv.BreakEnd, now)
		}
		entries = append(entries, DayEntry{
			Hours:    hours,
			Rate:     iv.Rate,
			WorkType: iv.WorkType,
			ClockIn:  iv.ClockIn,
		})
	}
	return a.engine.ValueDay(entries)
}

// RecordShares 按天对已完成记录计薪，返回各记录的分摊金额（键为记录 ID）
// 同一天的记录必须全部传入，否则加班阈值会少算；进行中的记录不参与
func (e *Engine) RecordShares(intervals []Interval) map[string]decimal.Decimal {
	byDate := make(map[string][]Interval)
	for _, iv := range intervals {
		if !iv.IsActive {
			byDate[iv.Date] = append(byDate[iv.Date], iv)
		}
	}

	shares := make(map[string]decimal.Decimal, len(intervals))
	for _, day := range byDate {
		v := e.ValueDay(dayEntries(day))
		for i, iv := range day {
			shares[iv.ID] = v.Shares[i]
		}
	}
	return shares
}

func dayEntries(intervals []Interval) []DayEntry {
	entries := make([]DayEntry, len(intervals))
	for i, iv := range intervals {
		entries[i] = DayEntry{
			Hours:    iv.TotalHours,
			Rate:     iv.Rate,
			WorkType: iv.WorkType,
			ClockIn:  iv.ClockIn,
		}
	}
	return entries
}

func inProgressOf(iv Interval, now time.Time) *InProgress {
	return &InProgress{
		Interval:   iv,
		LiveHours:  LiveHours(iv.ClockIn, iv.ClockOut, iv.BreakStart, iv.BreakEnd, now),
		OnBreak:    iv.BreakStart != nil && iv.BreakEnd == nil,
		BreakSoFar: BreakMinutes(iv.BreakStart, iv.BreakEnd, now, true),
	}
}
