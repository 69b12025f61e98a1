package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/model"
	"github.com/AJ4200/whatiearn/internal/payroll"
	"github.com/AJ4200/whatiearn/internal/repository"
	pkgerrors "github.com/AJ4200/whatiearn/pkg/errors"
)

// maxReportDays 单次报表允许的最大天数
const maxReportDays = 3 * 366

var (
	ErrRangeIncomplete = fmt.Errorf("%w: from 与 to 必须同时提供", pkgerrors.ErrValidation)
	ErrRangeTooLarge   = fmt.Errorf("%w: 报表范围过大", pkgerrors.ErrValidation)
)

// Snapshot 一个日期范围内的报表原始数据与汇总结果
type Snapshot struct {
	Range    payroll.DateRange
	Records  []model.WorkRecord
	Settings *model.RateSettings
	Report   payroll.Report
}

// ReportService 报表业务接口
type ReportService interface {
	// ResolveRange from/to 优先，否则按 period（默认 week）与 date（默认今天）推算
	ResolveRange(req *dto.ReportRequest) (payroll.DateRange, error)
	Snapshot(ctx context.Context, userID string, rng payroll.DateRange) (*Snapshot, error)
	Report(ctx context.Context, userID string, req *dto.ReportRequest) (*dto.ReportResponse, error)
	Payslip(ctx context.Context, userID string, req *dto.PayslipRequest) (*dto.PayslipResponse, error)
	// Estimate 按当前时薪估算给定工时的应发与实发
	Estimate(ctx context.Context, userID string, req *dto.EstimateRequest) (*dto.EstimateResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	pr     *Payroll
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, pr *Payroll, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, pr: pr, logger: logger}
}

// ────────────────────── ResolveRange ──────────────────────

func (s *reportService) ResolveRange(req *dto.ReportRequest) (payroll.DateRange, error) {
	var (
		rng payroll.DateRange
		err error
	)
	switch {
	case req.From != "" || req.To != "":
		if req.From == "" || req.To == "" {
			return payroll.DateRange{}, ErrRangeIncomplete
		}
		rng, err = parseRange(req.From, req.To)
	default:
		var g payroll.Granularity
		g, err = payroll.ParseGranularity(req.Period)
		if err != nil {
			return payroll.DateRange{}, fmt.Errorf("%w: %v", pkgerrors.ErrValidation, err)
		}
		var day = s.pr.Today()
		if req.Date != "" {
			day, err = payroll.ParseDate(req.Date)
		}
		if err == nil {
			rng = s.pr.Periods.RangeFor(g, day)
		}
	}
	if err != nil {
		return payroll.DateRange{}, fmt.Errorf("%w: %v", pkgerrors.ErrValidation, err)
	}
	if len(rng.Days()) > maxReportDays {
		return payroll.DateRange{}, ErrRangeTooLarge
	}
	return rng, nil
}

func parseRange(from, to string) (payroll.DateRange, error) {
	f, err := payroll.ParseDate(from)
	if err != nil {
		return payroll.DateRange{}, err
	}
	t, err := payroll.ParseDate(to)
	if err != nil {
		return payroll.DateRange{}, err
	}
	return payroll.NewDateRange(f, t)
}

// ────────────────────── Snapshot ──────────────────────

func (s *reportService) Snapshot(ctx context.Context, userID string, rng payroll.DateRange) (*Snapshot, error) {
	from, to := payroll.DateKey(rng.From), payroll.DateKey(rng.To)

	var (
		records  []model.WorkRecord
		holidays []model.CustomHoliday
		settings *model.RateSettings
	)

	// 三类数据互不依赖，并发读取
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.repo.WorkRecord.List(gctx, userID, repository.WorkRecordFilter{From: from, To: to})
		return err
	})
	g.Go(func() error {
		var err error
		holidays, err = s.repo.CustomHoliday.List(gctx, userID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = loadSettings(gctx, s.repo, s.pr, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("读取报表数据失败",
			zap.String("user_id", userID),
			zap.String("range", rng.String()),
			zap.Error(err),
		)
		return nil, err
	}

	set := make(payroll.HolidaySet, len(holidays))
	for _, h := range holidays {
		set[h.Date] = h.Name
	}
	intervals := make([]payroll.Interval, 0, len(records))
	for i := range records {
		intervals = append(intervals, toInterval(&records[i]))
	}

	rep := s.pr.Aggregator.Aggregate(payroll.AggregateInput{
		Intervals:  intervals,
		Holidays:   set,
		Deductions: deductionsOf(settings),
		Range:      rng,
		Now:        s.pr.Clock(),
	})

	return &Snapshot{
		Range:    rng,
		Records:  records,
		Settings: settings,
		Report:   rep,
	}, nil
}

// ────────────────────── Report ──────────────────────

func (s *reportService) Report(ctx context.Context, userID string, req *dto.ReportRequest) (*dto.ReportResponse, error) {
	rng, err := s.ResolveRange(req)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, userID, rng)
	if err != nil {
		return nil, err
	}

	rep := snap.Report
	resp := &dto.ReportResponse{
		From:            payroll.DateKey(rng.From),
		To:              payroll.DateKey(rng.To),
		Policy:          string(s.pr.Engine.Config().Policy),
		Daily:           make([]dto.DailyEntryResponse, 0, len(rep.Daily)),
		Summary:         toSummaryResponse(rep.Summary),
		Breakdown:       toBreakdownResponse(rep.Breakdown),
		Deductions:      toDeductionItems(rep.Deductions),
		TotalDeductions: money(rep.TotalDeductions),
		NetEarnings:     money(rep.Net),
	}
	if req.From == "" {
		resp.Period = req.Period
		if resp.Period == "" {
			resp.Period = string(payroll.GranularityWeek)
		}
	}
	for _, d := range rep.Daily {
		resp.Daily = append(resp.Daily, dto.DailyEntryResponse{
			Date:          d.Date,
			DayType:       string(d.DayType),
			HolidayName:   d.HolidayName,
			Hours:         hours(d.Hours),
			OvertimeHours: hours(d.OvertimeHours),
			Earnings:      money(d.Earnings),
			Records:       d.Records,
		})
	}
	if p := rep.InProgress; p != nil {
		resp.InProgress = &dto.InProgressResponse{
			Record:    s.intervalResponse(p.Interval),
			LiveHours: hours(p.LiveHours),
			OnBreak:   p.OnBreak,
		}
	}
	return resp, nil
}

// ────────────────────── Payslip ──────────────────────

func (s *reportService) Payslip(ctx context.Context, userID string, req *dto.PayslipRequest) (*dto.PayslipResponse, error) {
	day, err := s.pr.dateOrToday(req.Date)
	if err != nil {
		return nil, err
	}
	period := s.pr.Periods.Shift(s.pr.Periods.For(day), req.Offset)

	snap, err := s.Snapshot(ctx, userID, period.Range())
	if err != nil {
		return nil, err
	}

	rep := snap.Report
	rates := ratesOf(snap.Settings)
	return &dto.PayslipResponse{
		Period:       toPayPeriodResponse(period),
		EmployeeName: snap.Settings.EmployeeName,
		EmployeeID:   snap.Settings.EmployeeID,
		CompanyName:  snap.Settings.CompanyName,
		Rates: dto.RatesResponse{
			Normal:  money(rates.Normal),
			Sunday:  money(rates.Sunday),
			Holiday: money(rates.Holiday),
		},
		Breakdown:       toBreakdownResponse(rep.Breakdown),
		WorkDays:        rep.Summary.WorkDays,
		TotalHours:      hours(rep.Summary.TotalHours),
		GrossEarnings:   money(rep.Summary.TotalEarnings),
		Deductions:      toDeductionItems(rep.Deductions),
		TotalDeductions: money(rep.TotalDeductions),
		NetEarnings:     money(rep.Net),
		GeneratedAt:     formatTime(s.pr.Clock(), s.pr.Location),
	}, nil
}

// ────────────────────── Estimate ──────────────────────

func (s *reportService) Estimate(ctx context.Context, userID string, req *dto.EstimateRequest) (*dto.EstimateResponse, error) {
	settings, err := loadSettings(ctx, s.repo, s.pr, userID)
	if err != nil {
		s.logger.Error("读取时薪设置失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	deductions := deductionsOf(settings)
	if req.Deductions != nil {
		deductions = make([]payroll.Deduction, 0, len(*req.Deductions))
		for _, d := range *req.Deductions {
			deductions = append(deductions, payroll.Deduction{Name: d.Name, Amount: decimalOf(d.Amount)})
		}
	}

	est := s.pr.Engine.Estimate(payroll.EstimateHours{
		Normal:  req.NormalHours,
		Sunday:  req.SundayHours,
		Holiday: req.HolidayHours,
	}, ratesOf(settings), deductions)

	resp := &dto.EstimateResponse{
		Policy:          string(s.pr.Engine.Config().Policy),
		Lines:           make([]dto.EstimateLineResponse, 0, len(est.Lines)),
		GrossEarnings:   money(est.Gross),
		Deductions:      toDeductionItems(deductions),
		TotalDeductions: money(est.TotalDeductions),
		NetEarnings:     money(est.Net),
	}
	var total float64
	for _, l := range est.Lines {
		total += l.Hours
		resp.Lines = append(resp.Lines, dto.EstimateLineResponse{
			WorkType: string(l.WorkType),
			Hours:    hours(l.Hours),
			Rate:     money(l.Rate),
			Amount:   money(l.Amount),
		})
	}
	resp.TotalHours = hours(total)
	return resp, nil
}

func (s *reportService) intervalResponse(iv payroll.Interval) dto.WorkRecordResponse {
	return dto.WorkRecordResponse{
		ID:            iv.ID,
		Date:          iv.Date,
		ClockIn:       formatTime(iv.ClockIn, s.pr.Location),
		ClockOut:      formatTimePtr(iv.ClockOut, s.pr.Location),
		BreakStart:    formatTimePtr(iv.BreakStart, s.pr.Location),
		BreakEnd:      formatTimePtr(iv.BreakEnd, s.pr.Location),
		WorkType:      string(iv.WorkType),
		Rate:          money(iv.Rate),
		TotalHours:    hours(iv.TotalHours),
		Earnings:      money(iv.Earnings),
		IsActive:      iv.IsActive,
		IsManualEntry: iv.IsManual,
		BreakTaken:    iv.BreakStart != nil && iv.BreakEnd != nil,
	}
}

func toSummaryResponse(s payroll.Summary) dto.SummaryResponse {
	return dto.SummaryResponse{
		TotalHours:     hours(s.TotalHours),
		TotalEarnings:  money(s.TotalEarnings),
		WorkDays:       s.WorkDays,
		AvgHoursPerDay: hours(s.AvgHoursPerDay),
	}
}

func toBreakdownResponse(b payroll.Breakdown) dto.BreakdownResponse {
	conv := func(t payroll.TypeTotals) dto.TypeTotalsResponse {
		return dto.TypeTotalsResponse{Hours: hours(t.Hours), Earnings: money(t.Earnings), Records: t.Records}
	}
	return dto.BreakdownResponse{
		Normal:  conv(b.Normal),
		Sunday:  conv(b.Sunday),
		Holiday: conv(b.Holiday),
	}
}
