package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/model"
	"github.com/AJ4200/whatiearn/internal/payroll"
	"github.com/AJ4200/whatiearn/internal/repository"
	pkgerrors "github.com/AJ4200/whatiearn/pkg/errors"
)

var (
	ErrRecordNotFound = fmt.Errorf("%w: 工作记录不存在", pkgerrors.ErrNotFound)
	ErrRecordActive   = fmt.Errorf("%w: 进行中的记录不能修改，请先下班打卡", pkgerrors.ErrInvalidTransition)
	ErrInvalidTime    = fmt.Errorf("%w: 时间格式无效，应为 RFC3339", pkgerrors.ErrValidation)
)

// manualEntryStart 手动录入的上班时刻（计薪时区）
const manualEntryStart = 9 * time.Hour

// defaultHolidayName 未填写名称时的自定义节假日名称
const defaultHolidayName = "Custom Holiday"

// WorkRecordService 工作记录业务接口
type WorkRecordService interface {
	List(ctx context.Context, userID string, req *dto.WorkRecordListRequest) ([]dto.WorkRecordResponse, int64, error)
	Get(ctx context.Context, userID, id string) (*dto.WorkRecordResponse, error)
	Update(ctx context.Context, userID, id string, req *dto.UpdateWorkRecordRequest) (*dto.WorkRecordResponse, error)
	Delete(ctx context.Context, userID, id string) error
	// ManualEntry 按日期录入工时，覆盖当天第一条已完成记录
	ManualEntry(ctx context.Context, userID string, req *dto.ManualEntryRequest) (*dto.ManualEntryResponse, error)
}

type workRecordService struct {
	repo   *repository.Repository
	pr     *Payroll
	logger *zap.Logger
}

// NewWorkRecordService 创建 WorkRecordService 实例
func NewWorkRecordService(repo *repository.Repository, pr *Payroll, logger *zap.Logger) WorkRecordService {
	return &workRecordService{repo: repo, pr: pr, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *workRecordService) List(ctx context.Context, userID string, req *dto.WorkRecordListRequest) ([]dto.WorkRecordResponse, int64, error) {
	if req.From != "" && req.To != "" && req.From > req.To {
		return nil, 0, fmt.Errorf("%w: %v", pkgerrors.ErrValidation, payroll.ErrInvalidRange)
	}

	filter := repository.WorkRecordFilter{From: req.From, To: req.To, WorkType: req.WorkType}
	records, total, err := s.repo.WorkRecord.ListPaged(ctx, userID, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询工作记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	rows := make([]*model.WorkRecord, len(records))
	for i := range records {
		rows[i] = &records[i]
	}
	shares, err := recordShares(ctx, s.repo, s.pr, userID, rows...)
	if err != nil {
		s.logger.Error("计算记录计薪失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.WorkRecordResponse, 0, len(records))
	for _, r := range rows {
		list = append(list, *toWorkRecordResponse(r, s.pr.Location, shares))
	}
	return list, total, nil
}

// ────────────────────── Get ──────────────────────

func (s *workRecordService) Get(ctx context.Context, userID, id string) (*dto.WorkRecordResponse, error) {
	record, err := s.get(ctx, s.repo, userID, id)
	if err != nil {
		return nil, err
	}
	return s.response(ctx, s.repo, userID, record)
}

// ────────────────────── Update ──────────────────────

func (s *workRecordService) Update(ctx context.Context, userID, id string, req *dto.UpdateWorkRecordRequest) (*dto.WorkRecordResponse, error) {
	record, err := s.get(ctx, s.repo, userID, id)
	if err != nil {
		return nil, err
	}
	if record.IsActive {
		return nil, ErrRecordActive
	}

	if err := applyTimes(record, req); err != nil {
		return nil, err
	}
	if record.ClockOut == nil {
		return nil, fmt.Errorf("%w: 已完成的记录必须包含下班时间", pkgerrors.ErrValidation)
	}
	if err := payroll.ValidateBreak(record.ClockIn, record.ClockOut, record.BreakStart, record.BreakEnd); err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrValidation, err)
	}
	record.Date = payroll.DateKey(payroll.DateOf(record.ClockIn, s.pr.Location))

	if req.WorkType != nil {
		wt, err := payroll.ParseWorkType(*req.WorkType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pkgerrors.ErrValidation, err)
		}
		if string(wt) != record.WorkType && req.Rate == nil {
			// 修改类型未指定时薪时按当前设置取新类型的时薪
			settings, err := loadSettings(ctx, s.repo, s.pr, userID)
			if err != nil {
				s.logger.Error("读取时薪设置失败", zap.String("user_id", userID), zap.Error(err))
				return nil, err
			}
			record.Rate = payroll.RateFor(wt, ratesOf(settings))
		}
		record.WorkType = string(wt)
	}
	if req.Rate != nil {
		record.Rate = decimalOf(*req.Rate)
	}
	finalize(s.pr, record)

	if err := s.repo.WorkRecord.Update(ctx, record); err != nil {
		s.logger.Error("更新工作记录失败", zap.String("work_record_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("工作记录已修改", zap.String("work_record_id", id))
	return s.response(ctx, s.repo, userID, record)
}

// response 以当天计薪分摊后的金额返回记录
func (s *workRecordService) response(ctx context.Context, repo *repository.Repository, userID string, record *model.WorkRecord) (*dto.WorkRecordResponse, error) {
	shares, err := recordShares(ctx, repo, s.pr, userID, record)
	if err != nil {
		s.logger.Error("计算记录计薪失败", zap.String("work_record_id", record.WorkRecordID), zap.Error(err))
		return nil, err
	}
	return toWorkRecordResponse(record, s.pr.Location, shares), nil
}

// applyTimes 将请求中的时间字段写入记录
func applyTimes(record *model.WorkRecord, req *dto.UpdateWorkRecordRequest) error {
	parse := func(s *string) (*time.Time, error) {
		t, err := time.Parse(time.RFC3339, *s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTime, *s)
		}
		return &t, nil
	}

	if req.ClockIn != nil {
		t, err := parse(req.ClockIn)
		if err != nil {
			return err
		}
		record.ClockIn = *t
	}
	if req.ClockOut != nil {
		t, err := parse(req.ClockOut)
		if err != nil {
			return err
		}
		record.ClockOut = t
	}
	if req.ClearBreak {
		record.BreakStart, record.BreakEnd = nil, nil
		return nil
	}
	if req.BreakStart != nil {
		t, err := parse(req.BreakStart)
		if err != nil {
			return err
		}
		record.BreakStart = t
	}
	if req.BreakEnd != nil {
		t, err := parse(req.BreakEnd)
		if err != nil {
			return err
		}
		record.BreakEnd = t
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *workRecordService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.WorkRecord.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		s.logger.Error("删除工作记录失败", zap.String("work_record_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("工作记录已删除", zap.String("work_record_id", id))
	return nil
}

// ────────────────────── ManualEntry ──────────────────────

func (s *workRecordService) ManualEntry(ctx context.Context, userID string, req *dto.ManualEntryRequest) (*dto.ManualEntryResponse, error) {
	day, err := payroll.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrValidation, err)
	}

	resp := &dto.ManualEntryResponse{}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. 节假日标记先落库，工作类型分类需要看到它
		if req.MarkAsHoliday != nil {
			if err := s.applyHolidayMark(ctx, tx, userID, req, resp); err != nil {
				return err
			}
		}

		// 2. 工时为 0 时不改动记录
		if req.Hours <= 0 {
			return nil
		}

		wt, err := s.manualWorkType(ctx, tx, userID, day, req.WorkType)
		if err != nil {
			return err
		}
		settings, err := loadSettings(ctx, tx, s.pr, userID)
		if err != nil {
			return err
		}

		// 3. 当天 09:00 起算
		y, m, d := day.Date()
		clockIn := time.Date(y, m, d, 0, 0, 0, 0, s.pr.Location).Add(manualEntryStart)
		clockOut := clockIn.Add(time.Duration(req.Hours * float64(time.Hour)))

		record, err := tx.WorkRecord.GetCompletedByDate(ctx, userID, req.Date)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			record = &model.WorkRecord{UserID: userID, Date: req.Date}
		case err != nil:
			return err
		}
		record.ClockIn = clockIn
		record.ClockOut = &clockOut
		record.BreakStart, record.BreakEnd = nil, nil
		record.WorkType = string(wt)
		record.Rate = payroll.RateFor(wt, ratesOf(settings))
		record.IsActive = false
		record.IsManualEntry = true
		finalize(s.pr, record)

		if record.WorkRecordID == "" {
			err = tx.WorkRecord.Create(ctx, record)
		} else {
			err = tx.WorkRecord.Update(ctx, record)
		}
		if err != nil {
			return err
		}
		resp.Record, err = s.response(ctx, tx, userID, record)
		return err
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrValidation) {
			return nil, err
		}
		s.logger.Error("手动录入失败", zap.String("user_id", userID), zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}

	s.logger.Info("手动录入工时",
		zap.String("user_id", userID),
		zap.String("date", req.Date),
		zap.Float64("hours", req.Hours),
	)
	return resp, nil
}

func (s *workRecordService) applyHolidayMark(ctx context.Context, tx *repository.Repository, userID string, req *dto.ManualEntryRequest, resp *dto.ManualEntryResponse) error {
	existing, err := tx.CustomHoliday.GetByDate(ctx, userID, req.Date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if !*req.MarkAsHoliday {
		if existing == nil {
			return nil
		}
		if err := tx.CustomHoliday.Delete(ctx, userID, existing.CustomHolidayID); err != nil {
			return err
		}
		resp.HolidayRemoved = true
		return nil
	}

	if existing != nil {
		resp.Holiday = toHolidayResponse(existing)
		return nil
	}
	name := req.HolidayName
	if name == "" {
		name = defaultHolidayName
	}
	h := &model.CustomHoliday{UserID: userID, Date: req.Date, Name: name}
	if err := tx.CustomHoliday.Create(ctx, h); err != nil {
		return err
	}
	resp.Holiday = toHolidayResponse(h)
	return nil
}

func (s *workRecordService) manualWorkType(ctx context.Context, tx *repository.Repository, userID string, day time.Time, requested *string) (payroll.WorkType, error) {
	if requested != nil && *requested != "" {
		wt, err := payroll.ParseWorkType(*requested)
		if err != nil {
			return "", fmt.Errorf("%w: %v", pkgerrors.ErrValidation, err)
		}
		return wt, nil
	}
	info, err := s.pr.Classifier.Classify(ctx, day, holidayLookup(tx, userID))
	if err != nil {
		return "", err
	}
	return info.WorkType, nil
}

func (s *workRecordService) get(ctx context.Context, repo *repository.Repository, userID, id string) (*model.WorkRecord, error) {
	record, err := repo.WorkRecord.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		s.logger.Error("查询工作记录失败", zap.String("work_record_id", id), zap.Error(err))
		return nil, err
	}
	return record, nil
}
