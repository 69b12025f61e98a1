package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AJ4200/whatiearn/internal/payroll"
)

func newAggregator(policy payroll.Policy) *payroll.Aggregator {
	cfg := payroll.DefaultEngineConfig()
	cfg.Policy = policy
	return payroll.NewAggregator(payroll.NewEngine(cfg), newClassifier())
}

func dateRange(t *testing.T, from, to string) payroll.DateRange {
	t.Helper()
	f, err := payroll.ParseDate(from)
	require.NoError(t, err)
	tt, err := payroll.ParseDate(to)
	require.NoError(t, err)
	r, err := payroll.NewDateRange(f, tt)
	require.NoError(t, err)
	return r
}

func completed(date string, hours float64, rate string, w payroll.WorkType) payroll.Interval {
	in, _ := time.Parse("2006-01-02 15:04", date+" 08:00")
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	return payroll.Interval{
		Date:       date,
		ClockIn:    in,
		ClockOut:   &out,
		WorkType:   w,
		Rate:       dec(rate),
		TotalHours: hours,
		Earnings:   payroll.NewEngine(payroll.DefaultEngineConfig()).IntervalEarnings(hours, dec(rate)),
	}
}

func TestAggregate_GapFilling(t *testing.T) {
	rep := newAggregator(payroll.PolicyStacked).Aggregate(payroll.AggregateInput{
		Intervals: []payroll.Interval{completed("2025-01-07", 6, "100", payroll.WorkTypeNormal)},
		Range:     dateRange(t, "2025-01-06", "2025-01-08"),
	})

	require.Len(t, rep.Daily, 3)
	assert.Equal(t, "2025-01-06", rep.Daily[0].Date)
	assert.Zero(t, rep.Daily[0].Hours)
	assert.True(t, rep.Daily[0].Earnings.IsZero())
	assert.InDelta(t, 6.0, rep.Daily[1].Hours, 1e-9)
	assert.True(t, rep.Daily[1].Earnings.Equal(dec("600")))
	assert.Zero(t, rep.Daily[2].Hours)

	assert.Equal(t, 1, rep.Summary.WorkDays)
	assert.InDelta(t, 6.0, rep.Summary.AvgHoursPerDay, 1e-9)
}

func TestAggregate_EmptyRangeHasZeroAverage(t *testing.T) {
	rep := newAggregator(payroll.PolicyStacked).Aggregate(payroll.AggregateInput{
		Range: dateRange(t, "2025-01-06", "2025-01-12"),
	})

	assert.Len(t, rep.Daily, 7)
	assert.Zero(t, rep.Summary.WorkDays)
	assert.Zero(t, rep.Summary.AvgHoursPerDay)
	assert.True(t, rep.Summary.TotalEarnings.IsZero())
}

func TestAggregate_ExcludesActiveAndOutOfRange(t *testing.T) {
	active := payroll.Interval{
		Date:     "2025-01-07",
		ClockIn:  at("08:00").AddDate(0, 0, -1),
		WorkType: payroll.WorkTypeNormal,
		Rate:     dec("100"),
		IsActive: true,
	}
	rep := newAggregator(payroll.PolicyStacked).Aggregate(payroll.AggregateInput{
		Intervals: []payroll.Interval{
			completed("2025-01-06", 4, "100", payroll.WorkTypeNormal),
			completed("2025-01-20", 4, "100", payroll.WorkTypeNormal),
			active,
		},
		Range: dateRange(t, "2025-01-06", "2025-01-08"),
		Now:   active.ClockIn.Add(3 * time.Hour),
	})

	assert.Equal(t, 1, rep.Summary.WorkDays)
	assert.InDelta(t, 4.0, rep.Summary.TotalHours, 1e-9)
	require.NotNil(t, rep.InProgress)
	assert.InDelta(t, 3.0, rep.InProgress.LiveHours, 1e-9)
	assert.False(t, rep.InProgress.OnBreak)
}

func TestAggregate_WorkDaysCountsDistinctDates(t *testing.T) {
	first := completed("2025-01-06", 3, "100", payroll.WorkTypeNormal)
	second := completed("2025-01-06", 3, "100", payroll.WorkTypeNormal)
	second.ClockIn = second.ClockIn.Add(5 * time.Hour)

	rep := newAggregator(payroll.PolicyStacked).Aggregate(payroll.AggregateInput{
		Intervals: []payroll.Interval{first, second},
		Range:     dateRange(t, "2025-01-06", "2025-01-06"),
	})

	assert.Equal(t, 1, rep.Summary.WorkDays)
	assert.Equal(t, 2, rep.Daily[0].Records)
	assert.InDelta(t, 6.0, rep.Summary.AvgHoursPerDay, 1e-9)
}

func TestAggregate_BreakdownAndNet(t *testing.T) {
	rep := newAggregator(payroll.PolicyStacked).Aggregate(payroll.AggregateInput{
		Intervals: []payroll.Interval{
			completed("2025-01-03", 9, "100", payroll.WorkTypeNormal),
			completed("2025-01-05", 4, "150", payroll.WorkTypeSunday),
			completed("2025-01-01", 2, "200", payroll.WorkTypeHoliday),
		},
		Deductions: []payroll.Deduction{{Name: "UIF", Amount: dec("50")}},
		Range:      dateRange(t, "2025-01-01", "2025-01-05"),
	})

	// 950 + 600 + 2*200*2
	assert.True(t, rep.Breakdown.Normal.Earnings.Equal(dec("950")), "实际=%s", rep.Breakdown.Normal.Earnings)
	assert.True(t, rep.Breakdown.Sunday.Earnings.Equal(dec("600")))
	assert.True(t, rep.Breakdown.Holiday.Earnings.Equal(dec("800")))
	assert.InDelta(t, 15.0, rep.Summary.TotalHours, 1e-9)
	assert.True(t, rep.Summary.TotalEarnings.Equal(dec("2350")))
	assert.True(t, rep.TotalDeductions.Equal(dec("50")))
	assert.True(t, rep.Net.Equal(dec("2300")))

	// 2025-01-01 为公共假日，2025-01-05 为周日
	assert.Equal(t, payroll.WorkTypeHoliday, rep.Daily[0].DayType)
	assert.Equal(t, "New Year's Day", rep.Daily[0].HolidayName)
	assert.Equal(t, payroll.WorkTypeSunday, rep.Daily[4].DayType)
}

func TestAggregate_BasePolicyEqualsStoredEarnings(t *testing.T) {
	iv := completed("2025-01-03", 9, "100", payroll.WorkTypeNormal)
	rep := newAggregator(payroll.PolicyBase).Aggregate(payroll.AggregateInput{
		Intervals: []payroll.Interval{iv},
		Range:     dateRange(t, "2025-01-03", "2025-01-03"),
	})
	assert.True(t, rep.Summary.TotalEarnings.Equal(dec("900")))
}

func TestAggregate_CustomHolidayMarksDay(t *testing.T) {
	rep := newAggregator(payroll.PolicyStacked).Aggregate(payroll.AggregateInput{
		Holidays: payroll.HolidaySet{"2025-01-08": "Company day"},
		Range:    dateRange(t, "2025-01-08", "2025-01-08"),
	})
	assert.Equal(t, payroll.WorkTypeHoliday, rep.Daily[0].DayType)
	assert.Equal(t, "Company day", rep.Daily[0].HolidayName)
}

func TestAggregate_Idempotent(t *testing.T) {
	agg := newAggregator(payroll.PolicyStacked)
	in := payroll.AggregateInput{
		Intervals: []payroll.Interval{
			completed("2025-01-07", 5, "100", payroll.WorkTypeNormal),
			completed("2025-01-06", 10, "100", payroll.WorkTypeNormal),
		},
		Deductions: []payroll.Deduction{{Name: "Tax", Amount: dec("100")}},
		Range:      dateRange(t, "2025-01-06", "2025-01-12"),
	}

	assert.Equal(t, agg.Aggregate(in), agg.Aggregate(in))
}

func TestValueToday_CountsOpenInterval(t *testing.T) {
	done := completed("2025-01-08", 7, "100", payroll.WorkTypeNormal)
	open := payroll.Interval{
		Date:       "2025-01-08",
		ClockIn:    at("16:00"),
		BreakStart: ptr(at("17:00")),
		WorkType:   payroll.WorkTypeNormal,
		Rate:       dec("100"),
		IsActive:   true,
	}

	// 开放区间 16:00 到 19:00，休息 17:00 起进行中 => 1h
	v := newAggregator(payroll.PolicyStacked).ValueToday([]payroll.Interval{done, open}, at("19:00"))
	assert.InDelta(t, 8.0, v.Hours, 1e-9)
	assert.True(t, v.Gross.Equal(dec("800")))
}

func TestAggregate_RecordEarningsSumToTotal(t *testing.T) {
	a := completed("2025-01-06", 6, "100", payroll.WorkTypeNormal)
	a.ID = "a"
	b := completed("2025-01-06", 4, "100", payroll.WorkTypeNormal)
	b.ID = "b"
	b.ClockIn = b.ClockIn.Add(7 * time.Hour)
	h := completed("2025-01-01", 9, "200", payroll.WorkTypeHoliday)
	h.ID = "h"

	agg := newAggregator(payroll.PolicyStacked)
	rep := agg.Aggregate(payroll.AggregateInput{
		Intervals: []payroll.Interval{a, b, h},
		Range:     dateRange(t, "2025-01-01", "2025-01-07"),
	})

	assert.True(t, rep.RecordEarnings["a"].Equal(dec("600")))
	// 超出 8h 的 2h 按 1.5 倍
	assert.True(t, rep.RecordEarnings["b"].Equal(dec("500")))
	// (8 × 200 + 1 × 200 × 1.5) × 2
	assert.True(t, rep.RecordEarnings["h"].Equal(dec("3800")))

	sum := dec("0")
	for _, v := range rep.RecordEarnings {
		sum = sum.Add(v)
	}
	assert.True(t, sum.Equal(rep.Summary.TotalEarnings))

	shares := payroll.NewEngine(payroll.DefaultEngineConfig()).RecordShares([]payroll.Interval{a, b, h})
	assert.Equal(t, len(rep.RecordEarnings), len(shares))
	for id, v := range shares {
		assert.True(t, v.Equal(rep.RecordEarnings[id]), id)
	}
}
