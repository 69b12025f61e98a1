package service

import (
	"context"
	"errors"
	"testing"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/model"
	pkgerrors "github.com/AJ4200/whatiearn/pkg/errors"
)

func TestCalendarService_DayInfo(t *testing.T) {
	svc, mocks := setupTestServices(t, newTestClock("2025-01-08", "08:00"))
	ctx := context.Background()
	_ = mocks.holidays.Create(ctx, &model.CustomHoliday{UserID: testUser, Date: "2025-01-09", Name: "Company day"})

	cases := []struct {
		date     string
		wantType string
		wantName string
		wantRate float64
	}{
		{"", "normal", "", 100},
		{"2025-01-05", "sunday", "", 150},
		{"2025-01-01", "holiday", "New Year's Day", 200},
		{"2025-01-09", "holiday", "Company day", 200},
	}
	for _, tc := range cases {
		info, err := svc.Calendar.DayInfo(ctx, testUser, tc.date)
		if err != nil {
			t.Fatalf("DayInfo(%q) 应成功: %v", tc.date, err)
		}
		if info.WorkType != tc.wantType || info.HolidayName != tc.wantName || info.Rate != tc.wantRate {
			t.Errorf("DayInfo(%q) 期望 %s/%q/%v, 实际=%s/%q/%v",
				tc.date, tc.wantType, tc.wantName, tc.wantRate, info.WorkType, info.HolidayName, info.Rate)
		}
	}

	if _, err := svc.Calendar.DayInfo(ctx, testUser, "2025-13-01"); !errors.Is(err, pkgerrors.ErrValidation) {
		t.Errorf("期望 ErrValidation, 实际: %v", err)
	}
}

func TestCalendarService_PayPeriod(t *testing.T) {
	svc, _ := setupTestServices(t, newTestClock("2025-01-08", "08:00"))
	ctx := context.Background()

	cur, err := svc.Calendar.PayPeriod(ctx, &dto.PayPeriodRequest{})
	if err != nil {
		t.Fatalf("PayPeriod 应成功: %v", err)
	}
	if cur.Start != "2024-12-21" || cur.End != "2025-01-20" || cur.Label != "Dec 21 - Jan 20, 2025" {
		t.Errorf("当前周期错误: %+v", cur)
	}

	next, _ := svc.Calendar.PayPeriod(ctx, &dto.PayPeriodRequest{Date: "2025-01-08", Offset: 1})
	if next.Start != "2025-01-21" || next.End != "2025-02-20" {
		t.Errorf("下一周期错误: %+v", next)
	}
}
