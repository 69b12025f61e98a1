package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AJ4200/whatiearn/config"
	"github.com/AJ4200/whatiearn/internal/service"
	pkgerrors "github.com/AJ4200/whatiearn/pkg/errors"
	"github.com/AJ4200/whatiearn/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Time     *TimeHandler
	Record   *RecordHandler
	Holiday  *HolidayHandler
	Calendar *CalendarHandler
	Settings *SettingsHandler
	Report   *ReportHandler
	Health   *HealthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, authCfg *config.AuthConfig, ping PingFunc) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth, authCfg),
		Time:     NewTimeHandler(svc.Clock),
		Record:   NewRecordHandler(svc.WorkRecord),
		Holiday:  NewHolidayHandler(svc.Holiday),
		Calendar: NewCalendarHandler(svc.Calendar),
		Settings: NewSettingsHandler(svc.Settings),
		Report:   NewReportHandler(svc.Report, svc.Export),
		Health:   NewHealthHandler(ping),
	}
}

// handleCommonError 按错误类别映射响应；业务错误消息直接返回，其余只返回通用消息
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		response.Unauthorized(c, response.CodeUnauthorized, err.Error())
	case errors.Is(err, pkgerrors.ErrInvalidTransition):
		response.Conflict(c, response.CodeConflict, err.Error())
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, response.CodeNotFound, err.Error())
	case errors.Is(err, pkgerrors.ErrValidation):
		response.BadRequest(c, response.CodeValidation, err.Error())
	default:
		response.InternalError(c)
	}
}

// badRequest 请求体或查询参数绑定失败
func badRequest(c *gin.Context, err error) {
	response.ErrorWithDetails(c, 400, response.CodeValidation, "参数校验失败", err.Error())
}
