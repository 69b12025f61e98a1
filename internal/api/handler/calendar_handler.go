package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/service"
	"github.com/AJ4200/whatiearn/pkg/response"
)

// CalendarHandler 日历与发薪周期 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// Day 某日的类型与适用时薪，date 为空时取今天
// GET /api/v1/calendar/day?date=2026-12-25
func (h *CalendarHandler) Day(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	info, err := h.calendarSvc.DayInfo(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, info)
}

// PayPeriod 发薪周期导航
// GET /api/v1/pay-periods?date=&offset=-1
func (h *CalendarHandler) PayPeriod(c *gin.Context) {
	var req dto.PayPeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	period, err := h.calendarSvc.PayPeriod(c.Request.Context(), &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, period)
}
