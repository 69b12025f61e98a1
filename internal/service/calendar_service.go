package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/payroll"
	"github.com/AJ4200/whatiearn/internal/repository"
	pkgerrors "github.com/AJ4200/whatiearn/pkg/errors"
)

// CalendarService 日期分类与发薪周期查询
type CalendarService interface {
	// DayInfo date 为空时取计薪时区的今天
	DayInfo(ctx context.Context, userID, date string) (*dto.DayInfoResponse, error)
	PayPeriod(ctx context.Context, req *dto.PayPeriodRequest) (*dto.PayPeriodResponse, error)
}

type calendarService struct {
	repo   *repository.Repository
	pr     *Payroll
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, pr *Payroll, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, pr: pr, logger: logger}
}

// ────────────────────── DayInfo ──────────────────────

func (s *calendarService) DayInfo(ctx context.Context, userID, date string) (*dto.DayInfoResponse, error) {
	day, err := s.pr.dateOrToday(date)
	if err != nil {
		return nil, err
	}

	info, err := s.pr.Classifier.Classify(ctx, day, holidayLookup(s.repo, userID))
	if err != nil {
		s.logger.Error("日期分类失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	settings, err := loadSettings(ctx, s.repo, s.pr, userID)
	if err != nil {
		s.logger.Error("读取时薪设置失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toDayInfoResponse(info, payroll.RateFor(info.WorkType, ratesOf(settings)))
	return &resp, nil
}

// ────────────────────── PayPeriod ──────────────────────

func (s *calendarService) PayPeriod(_ context.Context, req *dto.PayPeriodRequest) (*dto.PayPeriodResponse, error) {
	day, err := s.pr.dateOrToday(req.Date)
	if err != nil {
		return nil, err
	}
	p := s.pr.Periods.Shift(s.pr.Periods.For(day), req.Offset)
	resp := toPayPeriodResponse(p)
	return &resp, nil
}

// dateOrToday 解析日期键，空串取今天
func (p *Payroll) dateOrToday(date string) (time.Time, error) {
	if date == "" {
		return p.Today(), nil
	}
	d, err := payroll.ParseDate(date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", pkgerrors.ErrValidation, err)
	}
	return d, nil
}
