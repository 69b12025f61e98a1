package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AJ4200/whatiearn/internal/dto"
	pkgerrors "github.com/AJ4200/whatiearn/pkg/errors"
)

func TestManualEntry_CreatesAndReplaces(t *testing.T) {
	svc, mocks := setupTestServices(t, newTestClock("2025-01-10", "18:00"))
	ctx := context.Background()

	resp, err := svc.WorkRecord.ManualEntry(ctx, testUser, &dto.ManualEntryRequest{Date: "2025-01-08", Hours: 6})
	if err != nil {
		t.Fatalf("ManualEntry 应成功: %v", err)
	}
	rec := resp.Record
	if rec == nil {
		t.Fatal("期望返回记录")
	}
	if rec.ClockIn != "2025-01-08T09:00:00Z" || rec.ClockOut != "2025-01-08T15:00:00Z" {
		t.Errorf("期望 09:00-15:00, 实际=%s-%s", rec.ClockIn, rec.ClockOut)
	}
	if !rec.IsManualEntry || rec.TotalHours != 6 || rec.Earnings != 600 {
		t.Errorf("期望手动录入 6h/600, 实际=%v/%v/%v", rec.IsManualEntry, rec.TotalHours, rec.Earnings)
	}

	// 再次录入覆盖同一条记录
	resp, err = svc.WorkRecord.ManualEntry(ctx, testUser, &dto.ManualEntryRequest{Date: "2025-01-08", Hours: 4})
	if err != nil {
		t.Fatalf("ManualEntry 应成功: %v", err)
	}
	if resp.Record.ID != rec.ID {
		t.Errorf("期望覆盖记录 %s, 实际=%s", rec.ID, resp.Record.ID)
	}
	if n := len(mocks.records.records); n != 1 {
		t.Errorf("期望 1 条记录, 实际=%d", n)
	}
}

func TestManualEntry_ZeroHoursLeavesRecord(t *testing.T) {
	svc, mocks := setupTestServices(t, newTestClock("2025-01-10", "18:00"))

	resp, err := svc.WorkRecord.ManualEntry(context.Background(), testUser, &dto.ManualEntryRequest{Date: "2025-01-08"})
	if err != nil {
		t.Fatalf("ManualEntry 应成功: %v", err)
	}
	if resp.Record != nil || len(mocks.records.records) != 0 {
		t.Error("工时为 0 时不应创建记录")
	}
}

func TestManualEntry_MarkAsHoliday(t *testing.T) {
	svc, mocks := setupTestServices(t, newTestClock("2025-01-10", "18:00"))
	ctx := context.Background()

	resp, err := svc.WorkRecord.ManualEntry(ctx, testUser, &dto.ManualEntryRequest{
		Date:          "2025-01-08",
		Hours:         5,
		MarkAsHoliday: ptrTo(true),
		HolidayName:   "Stocktake",
	})
	if err != nil {
		t.Fatalf("ManualEntry 应成功: %v", err)
	}
	if resp.Holiday == nil || resp.Holiday.Name != "Stocktake" {
		t.Fatalf("期望创建节假日 Stocktake, 实际=%+v", resp.Holiday)
	}
	if resp.Record.WorkType != "holiday" || resp.Record.Rate != 200 {
		t.Errorf("期望 holiday/200, 实际=%s/%v", resp.Record.WorkType, resp.Record.Rate)
	}

	resp, err = svc.WorkRecord.ManualEntry(ctx, testUser, &dto.ManualEntryRequest{
		Date:          "2025-01-08",
		Hours:         5,
		MarkAsHoliday: ptrTo(false),
	})
	if err != nil {
		t.Fatalf("ManualEntry 应成功: %v", err)
	}
	if !resp.HolidayRemoved || len(mocks.holidays.holidays) != 0 {
		t.Error("期望移除节假日")
	}
	if resp.Record.WorkType != "normal" {
		t.Errorf("期望 normal, 实际=%s", resp.Record.WorkType)
	}
}

func TestManualEntry_ExplicitWorkType(t *testing.T) {
	svc, _ := setupTestServices(t, newTestClock("2025-01-10", "18:00"))

	resp, err := svc.WorkRecord.ManualEntry(context.Background(), testUser, &dto.ManualEntryRequest{
		Date: "2025-01-08", Hours: 2, WorkType: ptrTo("sunday"),
	})
	if err != nil {
		t.Fatalf("ManualEntry 应成功: %v", err)
	}
	if resp.Record.WorkType != "sunday" || resp.Record.Earnings != 300 {
		t.Errorf("期望 sunday/300, 实际=%s/%v", resp.Record.WorkType, resp.Record.Earnings)
	}
}

func TestUpdateRecord(t *testing.T) {
	svc, mocks := setupTestServices(t, newTestClock("2025-01-10", "18:00"))
	rec := addRecord(t, mocks, "2025-01-08", 8, "normal", 100)

	resp, err := svc.WorkRecord.Update(context.Background(), testUser, rec.WorkRecordID, &dto.UpdateWorkRecordRequest{
		ClockOut:   ptrTo("2025-01-08T18:00:00Z"),
		BreakStart: ptrTo("2025-01-08T12:00:00Z"),
		BreakEnd:   ptrTo("2025-01-08T13:00:00Z"),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	// 8h × 100 + 1h × 100 × 1.5
	if resp.TotalHours != 9 || resp.Earnings != 950 {
		t.Errorf("期望 9h/950, 实际=%v/%v", resp.TotalHours, resp.Earnings)
	}
	stored := mocks.records.records[rec.WorkRecordID]
	if !stored.Earnings.Equal(decimalOf(900)) {
		t.Errorf("存储的基础金额期望 900, 实际=%s", stored.Earnings)
	}
}

func TestUpdateRecord_WorkTypeChangeUsesCurrentRate(t *testing.T) {
	svc, mocks := setupTestServices(t, newTestClock("2025-01-10", "18:00"))
	rec := addRecord(t, mocks, "2025-01-08", 2, "normal", 100)

	resp, err := svc.WorkRecord.Update(context.Background(), testUser, rec.WorkRecordID, &dto.UpdateWorkRecordRequest{
		WorkType: ptrTo("holiday"),
	})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	// 2h × 200 × 节假日 2 倍
	if resp.Rate != 200 || resp.Earnings != 800 {
		t.Errorf("期望 200/800, 实际=%v/%v", resp.Rate, resp.Earnings)
	}
}

func TestUpdateRecord_Invalid(t *testing.T) {
	clk := newTestClock("2025-01-08", "08:00")
	svc, mocks := setupTestServices(t, clk)
	ctx := context.Background()
	rec := addRecord(t, mocks, "2025-01-07", 8, "normal", 100)

	cases := []struct {
		name string
		req  dto.UpdateWorkRecordRequest
		want error
	}{
		{"时间格式", dto.UpdateWorkRecordRequest{ClockIn: ptrTo("yesterday")}, ErrInvalidTime},
		{"下班早于上班", dto.UpdateWorkRecordRequest{ClockOut: ptrTo("2025-01-07T07:00:00Z")}, pkgerrors.ErrValidation},
		{"休息越界", dto.UpdateWorkRecordRequest{
			BreakStart: ptrTo("2025-01-07T15:00:00Z"),
			BreakEnd:   ptrTo("2025-01-07T17:00:00Z"),
		}, pkgerrors.ErrValidation},
		{"只有休息开始", dto.UpdateWorkRecordRequest{BreakStart: ptrTo("2025-01-07T12:00:00Z")}, pkgerrors.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.WorkRecord.Update(ctx, testUser, rec.WorkRecordID, &tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("期望 %v, 实际: %v", tc.want, err)
			}
		})
	}

	if stored := mocks.records.records[rec.WorkRecordID]; stored.BreakStart != nil || stored.OnBreak() {
		t.Error("校验失败的修改不应落库")
	}

	active, err := svc.Clock.ClockIn(ctx, testUser)
	if err != nil {
		t.Fatalf("ClockIn 应成功: %v", err)
	}
	_, err = svc.WorkRecord.Update(ctx, testUser, active.ID, &dto.UpdateWorkRecordRequest{ClearBreak: true})
	if !errors.Is(err, ErrRecordActive) {
		t.Errorf("期望 ErrRecordActive, 实际: %v", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	svc, mocks := setupTestServices(t, newTestClock("2025-01-10", "18:00"))
	ctx := context.Background()
	rec := addRecord(t, mocks, "2025-01-08", 8, "normal", 100)

	if err := svc.WorkRecord.Delete(ctx, testUser, rec.WorkRecordID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if err := svc.WorkRecord.Delete(ctx, testUser, rec.WorkRecordID); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound, 实际: %v", err)
	}
	if _, err := svc.WorkRecord.Get(ctx, testUser, rec.WorkRecordID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("期望 ErrNotFound, 实际: %v", err)
	}
}

func TestListRecords_EarningsValuedPerDay(t *testing.T) {
	svc, mocks := setupTestServices(t, newTestClock("2025-01-10", "18:00"))
	morning := addRecord(t, mocks, "2025-01-08", 6, "normal", 100)
	afternoon := addRecord(t, mocks, "2025-01-08", 4, "normal", 100)
	// 第二段 15:00 上班，累计超出 8h 的 2h 计加班
	in := morning.ClockIn.Add(7 * time.Hour)
	out := in.Add(4 * time.Hour)
	afternoon.ClockIn, afternoon.ClockOut = in, &out
	if err := mocks.records.Update(context.Background(), afternoon); err != nil {
		t.Fatalf("写入记录失败: %v", err)
	}

	list, _, err := svc.WorkRecord.List(context.Background(), testUser, &dto.WorkRecordListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	got := map[string]float64{}
	for _, r := range list {
		got[r.ID] = r.Earnings
	}
	// 6h × 100；2h × 100 + 2h × 100 × 1.5
	if got[morning.WorkRecordID] != 600 || got[afternoon.WorkRecordID] != 500 {
		t.Errorf("期望 600/500, 实际=%v/%v", got[morning.WorkRecordID], got[afternoon.WorkRecordID])
	}

	one, err := svc.WorkRecord.Get(context.Background(), testUser, afternoon.WorkRecordID)
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if one.Earnings != 500 {
		t.Errorf("Get 期望 500, 实际=%v", one.Earnings)
	}
}

func TestListRecords_FilterAndPaging(t *testing.T) {
	svc, mocks := setupTestServices(t, newTestClock("2025-01-10", "18:00"))
	addRecord(t, mocks, "2025-01-05", 4, "sunday", 150)
	addRecord(t, mocks, "2025-01-06", 8, "normal", 100)
	addRecord(t, mocks, "2025-01-07", 8, "normal", 100)

	list, total, err := svc.WorkRecord.List(context.Background(), testUser, &dto.WorkRecordListRequest{
		PaginationRequest: dto.PaginationRequest{Page: 1, PageSize: 1},
		WorkType:          "normal",
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 || len(list) != 1 {
		t.Fatalf("期望 total=2 len=1, 实际=%d/%d", total, len(list))
	}
	if list[0].Date != "2025-01-07" {
		t.Errorf("期望按日期倒序, 实际首条=%s", list[0].Date)
	}

	_, _, err = svc.WorkRecord.List(context.Background(), testUser, &dto.WorkRecordListRequest{From: "2025-01-09", To: "2025-01-01"})
	if !errors.Is(err, pkgerrors.ErrValidation) {
		t.Errorf("期望 ErrValidation, 实际: %v", err)
	}
}
