package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/model"
	"github.com/AJ4200/whatiearn/internal/repository"
)

// SettingsService 时薪与工资单设置
type SettingsService interface {
	// Get 首次读取时以默认值创建
	Get(ctx context.Context, userID string) (*dto.SettingsResponse, error)
	// Update 仅覆盖提交的字段；已有记录的时薪快照不受影响
	Update(ctx context.Context, userID string, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	repo   *repository.Repository
	pr     *Payroll
	logger *zap.Logger
}

// NewSettingsService 创建 SettingsService 实例
func NewSettingsService(repo *repository.Repository, pr *Payroll, logger *zap.Logger) SettingsService {
	return &settingsService{repo: repo, pr: pr, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *settingsService) Get(ctx context.Context, userID string) (*dto.SettingsResponse, error) {
	settings, err := loadSettings(ctx, s.repo, s.pr, userID)
	if err != nil {
		s.logger.Error("读取设置失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// ────────────────────── Update ──────────────────────

func (s *settingsService) Update(ctx context.Context, userID string, req *dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := loadSettings(ctx, s.repo, s.pr, userID)
	if err != nil {
		s.logger.Error("读取设置失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	if req.NormalRate != nil {
		settings.NormalRate = decimalOf(*req.NormalRate)
	}
	if req.SundayRate != nil {
		settings.SundayRate = decimalOf(*req.SundayRate)
	}
	if req.HolidayRate != nil {
		settings.HolidayRate = decimalOf(*req.HolidayRate)
	}
	if req.Deductions != nil {
		list := make(model.DeductionList, 0, len(*req.Deductions))
		for _, d := range *req.Deductions {
			list = append(list, model.Deduction{
				Name:   strings.TrimSpace(d.Name),
				Amount: decimalOf(d.Amount),
			})
		}
		settings.Deductions = list
	}
	if req.EmployeeName != nil {
		settings.EmployeeName = strings.TrimSpace(*req.EmployeeName)
	}
	if req.EmployeeID != nil {
		settings.EmployeeID = strings.TrimSpace(*req.EmployeeID)
	}
	if req.CompanyName != nil {
		settings.CompanyName = strings.TrimSpace(*req.CompanyName)
	}

	if err := s.repo.RateSettings.Update(ctx, settings); err != nil {
		s.logger.Error("更新设置失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("设置已更新", zap.String("user_id", userID))
	return toSettingsResponse(settings), nil
}

func toSettingsResponse(s *model.RateSettings) *dto.SettingsResponse {
	resp := &dto.SettingsResponse{
		NormalRate:   money(s.NormalRate),
		SundayRate:   money(s.SundayRate),
		HolidayRate:  money(s.HolidayRate),
		Deductions:   toDeductionItems(deductionsOf(s)),
		EmployeeName: s.EmployeeName,
		EmployeeID:   s.EmployeeID,
		CompanyName:  s.CompanyName,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.UTC().Format(dto.TimeLayout)
	}
	return resp
}
