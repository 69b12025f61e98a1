package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/model"
	"github.com/AJ4200/whatiearn/internal/payroll"
	"github.com/AJ4200/whatiearn/internal/repository"
	pkgerrors "github.com/AJ4200/whatiearn/pkg/errors"
)

var (
	ErrAlreadyClockedIn  = fmt.Errorf("%w: 已在工作中，请先下班打卡", pkgerrors.ErrInvalidTransition)
	ErrNotClockedIn      = fmt.Errorf("%w: 当前未上班", pkgerrors.ErrInvalidTransition)
	ErrAlreadyOnBreak    = fmt.Errorf("%w: 休息已在进行中", pkgerrors.ErrInvalidTransition)
	ErrNotOnBreak        = fmt.Errorf("%w: 当前未在休息", pkgerrors.ErrInvalidTransition)
	ErrBreakAlreadyTaken = fmt.Errorf("%w: 本次工作已休息过", pkgerrors.ErrInvalidTransition)
)

// ClockService 打卡业务接口
type ClockService interface {
	ClockIn(ctx context.Context, userID string) (*dto.WorkRecordResponse, error)
	ClockOut(ctx context.Context, userID string) (*dto.WorkRecordResponse, error)
	StartBreak(ctx context.Context, userID string) (*dto.WorkRecordResponse, error)
	EndBreak(ctx context.Context, userID string) (*dto.WorkRecordResponse, error)
	CurrentStatus(ctx context.Context, userID string) (*dto.CurrentStatusResponse, error)
	TodayStats(ctx context.Context, userID string) (*dto.TodayStatsResponse, error)
}

type clockService struct {
	repo   *repository.Repository
	pr     *Payroll
	logger *zap.Logger
}

// NewClockService 创建 ClockService 实例
func NewClockService(repo *repository.Repository, pr *Payroll, logger *zap.Logger) ClockService {
	return &clockService{repo: repo, pr: pr, logger: logger}
}

// ────────────────────── ClockIn ──────────────────────

func (s *clockService) ClockIn(ctx context.Context, userID string) (*dto.WorkRecordResponse, error) {
	if _, err := s.repo.WorkRecord.GetActive(ctx, userID); err == nil {
		return nil, ErrAlreadyClockedIn
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询进行中记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	now := s.pr.Clock()
	day := payroll.DateOf(now, s.pr.Location)

	// 日期分类必须包含自定义节假日
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

	record := &model.WorkRecord{
		UserID:   userID,
		Date:     info.Date,
		ClockIn:  now,
		WorkType: string(info.WorkType),
		Rate:     payroll.RateFor(info.WorkType, ratesOf(settings)),
		IsActive: true,
	}
	if err := s.repo.WorkRecord.Create(ctx, record); err != nil {
		// 并发上班打卡由部分唯一索引拦截
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyClockedIn
		}
		s.logger.Error("创建工作记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("上班打卡",
		zap.String("user_id", userID),
		zap.String("date", record.Date),
		zap.String("work_type", record.WorkType),
	)
	return toWorkRecordResponse(record, s.pr.Location, nil), nil
}

// ────────────────────── ClockOut ──────────────────────

func (s *clockService) ClockOut(ctx context.Context, userID string) (*dto.WorkRecordResponse, error) {
	record, err := s.active(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.pr.Clock()
	if record.OnBreak() {
		// 休息中下班：休息在下班时刻结束
		record.BreakEnd = &now
	}
	record.ClockOut = &now
	record.IsActive = false
	finalize(s.pr, record)

	if err := s.repo.WorkRecord.Update(ctx, record); err != nil {
		s.logger.Error("下班打卡失败", zap.String("work_record_id", record.WorkRecordID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("下班打卡",
		zap.String("user_id", userID),
		zap.Float64("total_hours", record.TotalHours),
	)

	shares, err := recordShares(ctx, s.repo, s.pr, userID, record)
	if err != nil {
		s.logger.Error("计算当日计薪失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toWorkRecordResponse(record, s.pr.Location, shares), nil
}

// ────────────────────── StartBreak ──────────────────────

func (s *clockService) StartBreak(ctx context.Context, userID string) (*dto.WorkRecordResponse, error) {
	record, err := s.active(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record.OnBreak() {
		return nil, ErrAlreadyOnBreak
	}
	if record.BreakStart != nil {
		return nil, ErrBreakAlreadyTaken
	}

	now := s.pr.Clock()
	record.BreakStart = &now
	if err := s.repo.WorkRecord.Update(ctx, record); err != nil {
		s.logger.Error("开始休息失败", zap.String("work_record_id", record.WorkRecordID), zap.Error(err))
		return nil, err
	}
	return toWorkRecordResponse(record, s.pr.Location, nil), nil
}

// ────────────────────── EndBreak ──────────────────────

func (s *clockService) EndBreak(ctx context.Context, userID string) (*dto.WorkRecordResponse, error) {
	record, err := s.active(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !record.OnBreak() {
		return nil, ErrNotOnBreak
	}

	now := s.pr.Clock()
	record.BreakEnd = &now
	if err := s.repo.WorkRecord.Update(ctx, record); err != nil {
		s.logger.Error("结束休息失败", zap.String("work_record_id", record.WorkRecordID), zap.Error(err))
		return nil, err
	}
	return toWorkRecordResponse(record, s.pr.Location, nil), nil
}

// ────────────────────── CurrentStatus ──────────────────────

func (s *clockService) CurrentStatus(ctx context.Context, userID string) (*dto.CurrentStatusResponse, error) {
	info, err := s.pr.Classifier.Classify(ctx, s.pr.Today(), holidayLookup(s.repo, userID))
	if err != nil {
		s.logger.Error("日期分类失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	settings, err := loadSettings(ctx, s.repo, s.pr, userID)
	if err != nil {
		s.logger.Error("读取时薪设置失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	rate := payroll.RateFor(info.WorkType, ratesOf(settings))

	resp := &dto.CurrentStatusResponse{
		Today:          toDayInfoResponse(info, rate),
		ApplicableRate: money(rate),
	}

	record, err := s.repo.WorkRecord.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		s.logger.Error("查询进行中记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp.ClockedIn = true
	resp.OnBreak = record.OnBreak()
	resp.CanStartBreak = record.BreakStart == nil
	resp.ActiveRecord = toWorkRecordResponse(record, s.pr.Location, nil)
	resp.LiveHours = hours(payroll.LiveHours(record.ClockIn, record.ClockOut, record.BreakStart, record.BreakEnd, s.pr.Clock()))
	return resp, nil
}

// ────────────────────── TodayStats ──────────────────────

func (s *clockService) TodayStats(ctx context.Context, userID string) (*dto.TodayStatsResponse, error) {
	today := payroll.DateKey(s.pr.Today())

	records, err := s.repo.WorkRecord.List(ctx, userID, repository.WorkRecordFilter{From: today, To: today})
	if err != nil {
		s.logger.Error("查询今日记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 跨零点仍未下班的记录归属上班日期，但今日统计同样计入
	active, err := s.repo.WorkRecord.GetActive(ctx, userID)
	switch {
	case err == nil:
		if active.Date != today {
			records = append(records, *active)
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("查询进行中记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	now := s.pr.Clock()
	intervals := make([]payroll.Interval, 0, len(records))
	resp := &dto.TodayStatsResponse{Date: today, Records: len(records)}
	var breakMinutes float64
	for i := range records {
		r := &records[i]
		intervals = append(intervals, toInterval(r))
		breakMinutes += payroll.BreakMinutes(r.BreakStart, r.BreakEnd, now, r.IsActive)
		if r.IsActive {
			resp.InProgress = true
		}
	}

	v := s.pr.Aggregator.ValueToday(intervals, now)
	resp.HoursWorked = hours(v.Hours)
	resp.RegularHours = hours(v.RegularHours)
	resp.OvertimeHours = hours(v.OvertimeHours)
	resp.BreakMinutes = hours(breakMinutes)
	resp.Earnings = money(v.Gross)
	resp.HolidayApplied = v.HolidayApplied
	return resp, nil
}

// active 取进行中的记录，不存在时返回 ErrNotClockedIn
func (s *clockService) active(ctx context.Context, userID string) (*model.WorkRecord, error) {
	record, err := s.repo.WorkRecord.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotClockedIn
		}
		s.logger.Error("查询进行中记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return record, nil
}
