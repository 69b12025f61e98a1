package service

import (
	"context"
	"testing"

	"github.com/AJ4200/whatiearn/internal/dto"
)

func TestSettingsService_GetCreatesDefaults(t *testing.T) {
	svc, mocks := setupTestServices(t, newTestClock("2025-01-08", "08:00"))

	s, err := svc.Settings.Get(context.Background(), testUser)
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if s.NormalRate != 100 || s.SundayRate != 150 || s.HolidayRate != 200 || s.CompanyName != "Acme" {
		t.Errorf("期望默认设置, 实际=%+v", s)
	}
	if len(s.Deductions) != 0 {
		t.Errorf("期望默认无扣款, 实际=%v", s.Deductions)
	}
	if _, ok := mocks.settings.settings[testUser]; !ok {
		t.Error("首次读取应写入默认设置")
	}
}

func TestSettingsService_PartialUpdate(t *testing.T) {
	svc, _ := setupTestServices(t, newTestClock("2025-01-08", "08:00"))
	ctx := context.Background()

	s, err := svc.Settings.Update(ctx, testUser, &dto.UpdateSettingsRequest{
		NormalRate:   ptrTo(120.0),
		Deductions:   &[]dto.DeductionItem{{Name: "UIF", Amount: 17.12}, {Name: "Tax", Amount: 250}},
		EmployeeName: ptrTo("Thandi"),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if s.NormalRate != 120 || s.SundayRate != 150 {
		t.Errorf("期望仅 normal_rate 变更, 实际=%v/%v", s.NormalRate, s.SundayRate)
	}
	if len(s.Deductions) != 2 || s.Deductions[0].Name != "UIF" || s.Deductions[0].Amount != 17.12 {
		t.Errorf("扣款列表错误: %+v", s.Deductions)
	}

	// 未提交 deductions 时保留原列表
	s, err = svc.Settings.Update(ctx, testUser, &dto.UpdateSettingsRequest{CompanyName: ptrTo("Shoprite")})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if len(s.Deductions) != 2 || s.EmployeeName != "Thandi" || s.CompanyName != "Shoprite" {
		t.Errorf("部分更新不应影响其他字段: %+v", s)
	}
}

func TestSettingsService_RateChangeKeepsSnapshot(t *testing.T) {
	clk := newTestClock("2025-01-08", "08:00")
	svc, _ := setupTestServices(t, clk)
	ctx := context.Background()

	_, _ = svc.Clock.ClockIn(ctx, testUser)
	if _, err := svc.Settings.Update(ctx, testUser, &dto.UpdateSettingsRequest{NormalRate: ptrTo(300.0)}); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	clk.Set("10:00")
	rec, err := svc.Clock.ClockOut(ctx, testUser)
	if err != nil {
		t.Fatalf("ClockOut 应成功: %v", err)
	}
	if rec.Rate != 100 || rec.Earnings != 200 {
		t.Errorf("期望沿用上班时的时薪快照 100, 实际=%v/%v", rec.Rate, rec.Earnings)
	}
}
