package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/service"
	"github.com/AJ4200/whatiearn/pkg/response"
)

// ReportHandler 报表、导出与工资单 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
	exportSvc service.ExportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService, exportSvc service.ExportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, exportSvc: exportSvc}
}

// Report 汇总报表
// GET /api/v1/reports?period=week|month|year|payperiod&date=  或  ?from=&to=
func (h *ReportHandler) Report(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	report, err := h.reportSvc.Report(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, report)
}

// Export 导出工时表
// GET /api/v1/reports/export?format=csv|xlsx&period=...
func (h *ReportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, contentType, err := h.exportSvc.Timesheet(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.Attachment(c, filename, contentType, buf.Bytes())
}

// Estimate 工资估算
// POST /api/v1/reports/estimate
func (h *ReportHandler) Estimate(c *gin.Context) {
	var req dto.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	est, err := h.reportSvc.Estimate(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, est)
}

// Payslip 工资单
// GET /api/v1/reports/payslip?date=&offset=
func (h *ReportHandler) Payslip(c *gin.Context) {
	var req dto.PayslipRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slip, err := h.reportSvc.Payslip(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, slip)
}

// PayslipPDF 工资单 PDF
// GET /api/v1/reports/payslip/pdf?date=&offset=
func (h *ReportHandler) PayslipPDF(c *gin.Context) {
	var req dto.PayslipRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.PayslipPDF(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.Attachment(c, filename, service.ContentTypePDF, buf.Bytes())
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRangeIncomplete), errors.Is(err, service.ErrRangeTooLarge):
		response.BadRequest(c, 14001, err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handleCommonError(c, err)
	}
}
