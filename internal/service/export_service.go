package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/model"
	"github.com/AJ4200/whatiearn/internal/payroll"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// 导出格式
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// csvHeader 逐条记录导出的列
var csvHeader = []string{"Date", "Clock In", "Clock Out", "Break Start", "Break End", "Hours Worked", "Earnings", "Holiday"}

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// Timesheet 按报表范围导出记录明细；format 为 csv（默认）或 xlsx
	Timesheet(ctx context.Context, userID string, req *dto.ExportRequest) (*bytes.Buffer, string, string, error)
	// PayslipPDF 渲染发薪周期工资单
	PayslipPDF(ctx context.Context, userID string, req *dto.PayslipRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	report ReportService
	pr     *Payroll
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(report ReportService, pr *Payroll, logger *zap.Logger) ExportService {
	return &exportService{report: report, pr: pr, logger: logger}
}

// ────────────────────── Timesheet ──────────────────────

func (s *exportService) Timesheet(ctx context.Context, userID string, req *dto.ExportRequest) (*bytes.Buffer, string, string, error) {
	rng, err := s.report.ResolveRange(&req.ReportRequest)
	if err != nil {
		return nil, "", "", err
	}
	snap, err := s.report.Snapshot(ctx, userID, rng)
	if err != nil {
		return nil, "", "", err
	}

	period := req.Period
	if period == "" {
		period = "range"
	}
	base := fmt.Sprintf("timesheet-%s-%s", period, payroll.DateKey(s.pr.Today()))

	if req.Format == FormatXLSX {
		buf, err := s.timesheetXLSX(snap)
		if err != nil {
			return nil, "", "", err
		}
		return buf, base + ".xlsx", ContentTypeXLSX, nil
	}

	buf, err := s.timesheetCSV(snap)
	if err != nil {
		return nil, "", "", err
	}
	return buf, base + ".csv", ContentTypeCSV, nil
}

// timesheetRow 单条记录的导出列；earnings 为该记录在当天的分摊金额
func (s *exportService) timesheetRow(r *model.WorkRecord, earnings decimal.Decimal) []string {
	clock := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.In(s.pr.Location).Format("15:04:05")
	}
	holiday := "No"
	if r.WorkType == string(payroll.WorkTypeHoliday) {
		holiday = "Yes"
	}
	return []string{
		r.Date,
		clock(&r.ClockIn),
		clock(r.ClockOut),
		clock(r.BreakStart),
		clock(r.BreakEnd),
		fmt.Sprintf("%.2f", r.TotalHours),
		earnings.StringFixed(2),
		holiday,
	}
}

func (s *exportService) timesheetCSV(snap *Snapshot) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for i := range snap.Records {
		r := &snap.Records[i]
		if r.IsActive {
			continue
		}
		if err := w.Write(s.timesheetRow(r, snap.Report.RecordEarnings[r.WorkRecordID])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		s.logger.Error("写入 CSV 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

// timesheetXLSX 两个 Sheet：Records 为逐条明细，Summary 为按天汇总
func (s *exportService) timesheetXLSX(snap *Snapshot) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		s.logger.Error("创建表头样式失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}

	// Records
	sheet := "Records"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		s.logger.Error("创建 Records 工作表失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "E", 11)
	f.SetColWidth(sheet, "F", "H", 13)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Timesheet %s", snap.Range))
	f.MergeCell(sheet, "A1", cell(colName(len(csvHeader)-1), 1))
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	for i, h := range csvHeader {
		f.SetCellValue(sheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheet, "A2", cell(colName(len(csvHeader)-1), 2), headerStyle)

	row := 3
	for i := range snap.Records {
		r := &snap.Records[i]
		if r.IsActive {
			continue
		}
		earnings := snap.Report.RecordEarnings[r.WorkRecordID]
		for c, v := range s.timesheetRow(r, earnings) {
			f.SetCellValue(sheet, cell(colName(c), row), v)
		}
		// 数值列写为数字便于表格内汇总
		f.SetCellValue(sheet, cell("F", row), hours(r.TotalHours))
		f.SetCellValue(sheet, cell("G", row), money(earnings))
		row++
	}

	// Summary
	sum := "Summary"
	if _, err := f.NewSheet(sum); err != nil {
		s.logger.Error("创建 Summary 工作表失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	f.SetColWidth(sum, "A", "A", 12)
	f.SetColWidth(sum, "B", "C", 20)
	f.SetColWidth(sum, "D", "F", 13)

	headers := []string{"Date", "Day Type", "Holiday", "Hours", "Overtime", "Earnings"}
	for i, h := range headers {
		f.SetCellValue(sum, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sum, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	row = 2
	for _, d := range snap.Report.Daily {
		f.SetCellValue(sum, cell("A", row), d.Date)
		f.SetCellValue(sum, cell("B", row), string(d.DayType))
		f.SetCellValue(sum, cell("C", row), d.HolidayName)
		f.SetCellValue(sum, cell("D", row), hours(d.Hours))
		f.SetCellValue(sum, cell("E", row), hours(d.OvertimeHours))
		f.SetCellValue(sum, cell("F", row), money(d.Earnings))
		row++
	}

	rep := snap.Report
	totals := [][2]interface{}{
		{"Total Hours", hours(rep.Summary.TotalHours)},
		{"Gross Earnings", money(rep.Summary.TotalEarnings)},
		{"Deductions", money(rep.TotalDeductions)},
		{"Net Earnings", money(rep.Net)},
	}
	row++
	for _, t := range totals {
		f.SetCellValue(sum, cell("E", row), t[0])
		f.SetCellValue(sum, cell("F", row), t[1])
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, ErrExportGenerateFail
	}
	return buf, nil
}

// ────────────────────── PayslipPDF ──────────────────────

func (s *exportService) PayslipPDF(ctx context.Context, userID string, req *dto.PayslipRequest) (*bytes.Buffer, string, error) {
	slip, err := s.report.Payslip(ctx, userID, req)
	if err != nil {
		return nil, "", err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+slip.Period.Label, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, slip.CompanyName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Payslip: "+slip.Period.Label, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Employee: "+slip.EmployeeName, "", 1, "L", false, 0, "")
	if slip.EmployeeID != "" {
		pdf.CellFormat(0, 6, "Employee ID: "+slip.EmployeeID, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// 收入明细
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range []struct {
		text  string
		width float64
	}{{"Type", 60}, {"Rate", 40}, {"Hours", 40}, {"Amount", 50}} {
		pdf.CellFormat(h.width, 8, h.text, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)

	lines := []struct {
		name   string
		rate   float64
		totals dto.TypeTotalsResponse
	}{
		{"Normal", slip.Rates.Normal, slip.Breakdown.Normal},
		{"Sunday", slip.Rates.Sunday, slip.Breakdown.Sunday},
		{"Public/Custom Holiday", slip.Rates.Holiday, slip.Breakdown.Holiday},
	}
	for _, l := range lines {
		pdf.CellFormat(60, 7, l.name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", l.rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", l.totals.Hours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("%.2f", l.totals.Earnings), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(140, 7, "Gross Earnings", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, fmt.Sprintf("%.2f", slip.GrossEarnings), "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	// 扣款
	pdf.SetFont("Helvetica", "", 11)
	for _, d := range slip.Deductions {
		pdf.CellFormat(140, 7, d.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, fmt.Sprintf("-%.2f", d.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(140, 7, "Total Deductions", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 7, fmt.Sprintf("-%.2f", slip.TotalDeductions), "1", 1, "R", false, 0, "")
	pdf.CellFormat(140, 9, "Net Pay", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 9, fmt.Sprintf("%.2f", slip.NetEarnings), "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Work days: %d   Total hours: %.2f", slip.WorkDays, slip.TotalHours), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Generated: "+slip.GeneratedAt, "", 1, "L", false, 0, "")

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		s.logger.Error("生成工资单 PDF 失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("payslip-%s.pdf", slip.Period.Start), nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
