package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/service"
	"github.com/AJ4200/whatiearn/pkg/response"
)

// TimeHandler 打卡模块 HTTP 处理器
type TimeHandler struct {
	clockSvc service.ClockService
}

// NewTimeHandler 创建 TimeHandler
func NewTimeHandler(clockSvc service.ClockService) *TimeHandler {
	return &TimeHandler{clockSvc: clockSvc}
}

// Clock 上班 / 下班打卡
// POST /api/v1/time/clock  {"action":"in"|"out"}
func (h *TimeHandler) Clock(c *gin.Context) {
	var req dto.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var (
		record *dto.WorkRecordResponse
		err    error
	)
	if req.Action == "in" {
		record, err = h.clockSvc.ClockIn(c.Request.Context(), userID)
	} else {
		record, err = h.clockSvc.ClockOut(c.Request.Context(), userID)
	}
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, record)
}

// Break 开始 / 结束休息
// POST /api/v1/time/break  {"action":"start"|"end"}
func (h *TimeHandler) Break(c *gin.Context) {
	var req dto.BreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var (
		record *dto.WorkRecordResponse
		err    error
	)
	if req.Action == "start" {
		record, err = h.clockSvc.StartBreak(c.Request.Context(), userID)
	} else {
		record, err = h.clockSvc.EndBreak(c.Request.Context(), userID)
	}
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, record)
}

// CurrentStatus 当前打卡状态
// GET /api/v1/time/current-status
func (h *TimeHandler) CurrentStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	status, err := h.clockSvc.CurrentStatus(c.Request.Context(), userID)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, status)
}

// TodayStats 今日统计
// GET /api/v1/time/today-stats
func (h *TimeHandler) TodayStats(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	stats, err := h.clockSvc.TodayStats(c.Request.Context(), userID)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, stats)
}
