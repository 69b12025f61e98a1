package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/AJ4200/whatiearn/internal/dto"
)

func TestExportService_TimesheetCSV(t *testing.T) {
	svc, _ := seedReportData(t)

	buf, filename, contentType, err := svc.Export.Timesheet(context.Background(), testUser, &dto.ExportRequest{
		ReportRequest: dto.ReportRequest{From: "2025-01-01", To: "2025-01-12"},
	})
	if err != nil {
		t.Fatalf("Timesheet 应成功: %v", err)
	}
	if filename != "timesheet-range-2025-01-08.csv" || contentType != ContentTypeCSV {
		t.Errorf("文件名或类型错误: %s %s", filename, contentType)
	}

	rows, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV 解析失败: %v", err)
	}
	// 表头 + 4 条已完成记录（进行中的记录不导出）
	if len(rows) != 5 {
		t.Fatalf("期望 5 行, 实际=%d", len(rows))
	}
	if strings.Join(rows[0], ",") != "Date,Clock In,Clock Out,Break Start,Break End,Hours Worked,Earnings,Holiday" {
		t.Errorf("表头错误: %v", rows[0])
	}
	// 节假日整日 2 倍：2h × 200 × 2
	want := []string{"2025-01-01", "08:00:00", "10:00:00", "", "", "2.00", "800.00", "Yes"}
	if strings.Join(rows[1], "|") != strings.Join(want, "|") {
		t.Errorf("期望 %v, 实际=%v", want, rows[1])
	}
	if rows[2][7] != "No" {
		t.Errorf("普通日期期望 Holiday=No, 实际=%s", rows[2][7])
	}
}

func TestExportService_CSVEarningsMatchReportTotal(t *testing.T) {
	svc, _ := seedReportData(t)
	ctx := context.Background()
	rng := dto.ReportRequest{From: "2025-01-01", To: "2025-01-31"}

	rep, err := svc.Report.Report(ctx, testUser, &rng)
	if err != nil {
		t.Fatalf("Report 应成功: %v", err)
	}
	buf, _, _, err := svc.Export.Timesheet(ctx, testUser, &dto.ExportRequest{ReportRequest: rng})
	if err != nil {
		t.Fatalf("Timesheet 应成功: %v", err)
	}
	rows, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV 解析失败: %v", err)
	}

	sum := decimal.Zero
	for _, row := range rows[1:] {
		v, err := decimal.NewFromString(row[6])
		if err != nil {
			t.Fatalf("Earnings 列无法解析: %q", row[6])
		}
		sum = sum.Add(v)
	}
	if !sum.Equal(decimal.NewFromFloat(rep.Summary.TotalEarnings)) {
		t.Errorf("CSV 合计 %s 与报表总额 %v 不一致", sum, rep.Summary.TotalEarnings)
	}
}

func TestExportService_TimesheetXLSX(t *testing.T) {
	svc, _ := seedReportData(t)

	buf, filename, contentType, err := svc.Export.Timesheet(context.Background(), testUser, &dto.ExportRequest{
		ReportRequest: dto.ReportRequest{Period: "week"},
		Format:        FormatXLSX,
	})
	if err != nil {
		t.Fatalf("Timesheet 应成功: %v", err)
	}
	if filename != "timesheet-week-2025-01-08.xlsx" || contentType != ContentTypeXLSX {
		t.Errorf("文件名或类型错误: %s %s", filename, contentType)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("打开 Excel 失败: %v", err)
	}
	defer f.Close()

	if v, _ := f.GetCellValue("Records", "A2"); v != "Date" {
		t.Errorf("Records!A2 期望 Date, 实际=%s", v)
	}
	if v, _ := f.GetCellValue("Records", "A3"); v != "2025-01-06" {
		t.Errorf("Records!A3 期望 2025-01-06, 实际=%s", v)
	}
	// 8h × 100 + 2h × 100 × 1.5
	if v, _ := f.GetCellValue("Records", "G3"); v != "1100" {
		t.Errorf("Records!G3 期望 1100, 实际=%s", v)
	}
	if v, _ := f.GetCellValue("Summary", "A2"); v != "2025-01-06" {
		t.Errorf("Summary!A2 期望 2025-01-06, 实际=%s", v)
	}
	if v, _ := f.GetCellValue("Summary", "F2"); v != "1100" {
		t.Errorf("Summary!F2 期望 1100, 实际=%s", v)
	}
}

func TestExportService_PayslipPDF(t *testing.T) {
	svc, _ := seedReportData(t)

	buf, filename, err := svc.Export.PayslipPDF(context.Background(), testUser, &dto.PayslipRequest{Date: "2025-01-08"})
	if err != nil {
		t.Fatalf("PayslipPDF 应成功: %v", err)
	}
	if filename != "payslip-2024-12-21.pdf" {
		t.Errorf("期望 payslip-2024-12-21.pdf, 实际=%s", filename)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("输出应为 PDF")
	}
}
