package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/model"
	"github.com/AJ4200/whatiearn/internal/payroll"
	"github.com/AJ4200/whatiearn/internal/repository"
)

// money 金额转 JSON 数值（两位小数）
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// hours 工时转 JSON 数值（两位小数）
func hours(h float64) float64 {
	return decimal.NewFromFloat(h).Round(2).InexactFloat64()
}

func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dto.TimeLayout)
}

func formatTimePtr(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return formatTime(*t, loc)
}

// holidayLookup 按用户查询自定义节假日
func holidayLookup(repo *repository.Repository, userID string) payroll.CustomHolidayLookup {
	return payroll.CustomHolidayLookupFunc(func(ctx context.Context, date string) (string, bool, error) {
		h, err := repo.CustomHoliday.GetByDate(ctx, userID, date)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", false, nil
			}
			return "", false, err
		}
		return h.Name, true, nil
	})
}

// loadSettings 读取用户设置，不存在时以默认值创建
func loadSettings(ctx context.Context, repo *repository.Repository, pr *Payroll, userID string) (*model.RateSettings, error) {
	return repo.RateSettings.GetOrCreate(ctx, &model.RateSettings{
		UserID:      userID,
		NormalRate:  pr.Defaults.Rates.Normal,
		SundayRate:  pr.Defaults.Rates.Sunday,
		HolidayRate: pr.Defaults.Rates.Holiday,
		Deductions:  model.DeductionList{},
		CompanyName: pr.Defaults.CompanyName,
	})
}

func ratesOf(s *model.RateSettings) payroll.Rates {
	return payroll.Rates{
		Normal:  s.NormalRate,
		Sunday:  s.SundayRate,
		Holiday: s.HolidayRate,
	}
}

func deductionsOf(s *model.RateSettings) []payroll.Deduction {
	out := make([]payroll.Deduction, 0, len(s.Deductions))
	for _, d := range s.Deductions {
		out = append(out, payroll.Deduction{Name: d.Name, Amount: d.Amount})
	}
	return out
}

func toDeductionItems(ds []payroll.Deduction) []dto.DeductionItem {
	out := make([]dto.DeductionItem, 0, len(ds))
	for _, d := range ds {
		out = append(out, dto.DeductionItem{Name: d.Name, Amount: money(d.Amount)})
	}
	return out
}

// toInterval 存储记录转为计薪区间
func toInterval(r *model.WorkRecord) payroll.Interval {
	return payroll.Interval{
		ID:         r.WorkRecordID,
		Date:       r.Date,
		ClockIn:    r.ClockIn,
		ClockOut:   r.ClockOut,
		BreakStart: r.BreakStart,
		BreakEnd:   r.BreakEnd,
		WorkType:   payroll.WorkType(r.WorkType),
		Rate:       r.Rate,
		TotalHours: r.TotalHours,
		Earnings:   r.Earnings,
		IsActive:   r.IsActive,
		IsManual:   r.IsManualEntry,
	}
}

// recordShares 记录按计薪策略在其当天的分摊金额
// 会读取涉及日期的全部已完成记录，使加班阈值按整天计算
func recordShares(ctx context.Context, repo *repository.Repository, pr *Payroll, userID string, records ...*model.WorkRecord) (map[string]decimal.Decimal, error) {
	dates := make(map[string]bool)
	from, to := "", ""
	for _, r := range records {
		if r.IsActive {
			continue
		}
		dates[r.Date] = true
		if from == "" || r.Date < from {
			from = r.Date
		}
		if r.Date > to {
			to = r.Date
		}
	}
	if len(dates) == 0 {
		return nil, nil
	}

	sameDay, err := repo.WorkRecord.List(ctx, userID, repository.WorkRecordFilter{From: from, To: to, CompletedOnly: true})
	if err != nil {
		return nil, err
	}
	intervals := make([]payroll.Interval, 0, len(sameDay))
	for i := range sameDay {
		if dates[sameDay[i].Date] {
			intervals = append(intervals, toInterval(&sameDay[i]))
		}
	}
	return pr.Engine.RecordShares(intervals), nil
}

// toWorkRecordResponse shares 中有该记录时以分摊金额作为 earnings，否则用存储的基础金额
func toWorkRecordResponse(r *model.WorkRecord, loc *time.Location, shares map[string]decimal.Decimal) *dto.WorkRecordResponse {
	earnings := r.Earnings
	if v, ok := shares[r.WorkRecordID]; ok {
		earnings = v
	}
	return &dto.WorkRecordResponse{
		ID:            r.WorkRecordID,
		Date:          r.Date,
		ClockIn:       formatTime(r.ClockIn, loc),
		ClockOut:      formatTimePtr(r.ClockOut, loc),
		BreakStart:    formatTimePtr(r.BreakStart, loc),
		BreakEnd:      formatTimePtr(r.BreakEnd, loc),
		WorkType:      r.WorkType,
		Rate:          money(r.Rate),
		TotalHours:    hours(r.TotalHours),
		Earnings:      money(earnings),
		IsActive:      r.IsActive,
		IsManualEntry: r.IsManualEntry,
		BreakTaken:    r.BreakStart != nil && r.BreakEnd != nil,
	}
}

func toDayInfoResponse(info payroll.DayTypeInfo, rate decimal.Decimal) dto.DayInfoResponse {
	return dto.DayInfoResponse{
		Date:            info.Date,
		WorkType:        string(info.WorkType),
		IsPublicHoliday: info.IsPublicHoliday,
		IsCustomHoliday: info.IsCustomHoliday,
		IsSunday:        info.IsSunday,
		HolidayName:     info.HolidayName,
		Rate:            money(rate),
	}
}

func toPayPeriodResponse(p payroll.PayPeriod) dto.PayPeriodResponse {
	return dto.PayPeriodResponse{
		Start: payroll.DateKey(p.Start),
		End:   payroll.DateKey(p.End),
		Label: p.Label,
	}
}

// finalize 以当前快照重新计算工时与基础金额
func finalize(pr *Payroll, r *model.WorkRecord) {
	r.TotalHours = payroll.Duration(r.ClockIn, r.ClockOut, r.BreakStart, r.BreakEnd, pr.Clock())
	r.Earnings = pr.Engine.IntervalEarnings(r.TotalHours, r.Rate)
}

func decimalOf(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
