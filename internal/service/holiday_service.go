package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/model"
	"github.com/AJ4200/whatiearn/internal/payroll"
	"github.com/AJ4200/whatiearn/internal/repository"
	pkgerrors "github.com/AJ4200/whatiearn/pkg/errors"
)

var (
	ErrHolidayNotFound = fmt.Errorf("%w: 节假日不存在", pkgerrors.ErrNotFound)
	ErrHolidayExists   = errors.New("该日期已设置自定义节假日")
	ErrInvalidICS      = fmt.Errorf("%w: ICS 文件无效", pkgerrors.ErrValidation)
)

// HolidayService 自定义节假日业务接口
type HolidayService interface {
	List(ctx context.Context, userID string, req *dto.HolidayListRequest) ([]dto.HolidayResponse, error)
	Create(ctx context.Context, userID string, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error)
	Delete(ctx context.Context, userID, id string) error
	// GetByDate 不存在时返回 ErrHolidayNotFound
	GetByDate(ctx context.Context, userID, date string) (*dto.HolidayResponse, error)
	// ImportICS 全天事件导入为自定义节假日，已存在的日期跳过
	ImportICS(ctx context.Context, userID string, r io.Reader) (*dto.ImportHolidaysResponse, error)
}

type holidayService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewHolidayService 创建 HolidayService 实例
func NewHolidayService(repo *repository.Repository, logger *zap.Logger) HolidayService {
	return &holidayService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *holidayService) List(ctx context.Context, userID string, req *dto.HolidayListRequest) ([]dto.HolidayResponse, error) {
	if req.From != "" && req.To != "" && req.From > req.To {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrValidation, payroll.ErrInvalidRange)
	}

	holidays, err := s.repo.CustomHoliday.List(ctx, userID, req.From, req.To)
	if err != nil {
		s.logger.Error("查询自定义节假日失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	list := make([]dto.HolidayResponse, 0, len(holidays))
	for i := range holidays {
		list = append(list, *toHolidayResponse(&holidays[i]))
	}
	return list, nil
}

// ────────────────────── Create ──────────────────────

func (s *holidayService) Create(ctx context.Context, userID string, req *dto.CreateHolidayRequest) (*dto.HolidayResponse, error) {
	if _, err := payroll.ParseDate(req.Date); err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrValidation, err)
	}

	h := &model.CustomHoliday{
		UserID: userID,
		Date:   req.Date,
		Name:   strings.TrimSpace(req.Name),
	}
	if err := s.repo.CustomHoliday.Create(ctx, h); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrHolidayExists
		}
		s.logger.Error("创建自定义节假日失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("自定义节假日已创建", zap.String("user_id", userID), zap.String("date", h.Date))
	return toHolidayResponse(h), nil
}

// ────────────────────── Delete ──────────────────────

func (s *holidayService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.CustomHoliday.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHolidayNotFound
		}
		s.logger.Error("删除自定义节假日失败", zap.String("custom_holiday_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── GetByDate ──────────────────────

func (s *holidayService) GetByDate(ctx context.Context, userID, date string) (*dto.HolidayResponse, error) {
	h, err := s.repo.CustomHoliday.GetByDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHolidayNotFound
		}
		s.logger.Error("查询自定义节假日失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toHolidayResponse(h), nil
}

// ────────────────────── ImportICS ──────────────────────

func (s *holidayService) ImportICS(ctx context.Context, userID string, r io.Reader) (*dto.ImportHolidaysResponse, error) {
	parsed, warnings, err := parseHolidayICS(io.LimitReader(r, ICSMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidICS, err)
	}

	holidays := make([]model.CustomHoliday, 0, len(parsed))
	for _, p := range parsed {
		holidays = append(holidays, model.CustomHoliday{UserID: userID, Date: p.Date, Name: p.Name})
	}

	imported, err := s.repo.CustomHoliday.CreateIgnoreDuplicates(ctx, holidays)
	if err != nil {
		s.logger.Error("导入自定义节假日失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("ICS 节假日导入完成",
		zap.String("user_id", userID),
		zap.Int("parsed", len(parsed)),
		zap.Int64("imported", imported),
	)
	return &dto.ImportHolidaysResponse{
		Parsed:   len(parsed),
		Imported: int(imported),
		Skipped:  len(parsed) - int(imported),
		Warnings: warnings,
	}, nil
}

func toHolidayResponse(h *model.CustomHoliday) *dto.HolidayResponse {
	return &dto.HolidayResponse{
		ID:   h.CustomHolidayID,
		Date: h.Date,
		Name: h.Name,
	}
}
