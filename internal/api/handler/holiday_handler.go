package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/service"
	"github.com/AJ4200/whatiearn/pkg/response"
)

// HolidayHandler 自定义节假日 HTTP 处理器
type HolidayHandler struct {
	holidaySvc service.HolidayService
}

// NewHolidayHandler 创建 HolidayHandler
func NewHolidayHandler(holidaySvc service.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidaySvc: holidaySvc}
}

// List 自定义节假日列表
// GET /api/v1/holidays?from=&to=
func (h *HolidayHandler) List(c *gin.Context) {
	var req dto.HolidayListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.holidaySvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}
	response.OK(c, list)
}

// Create 新增自定义节假日
// POST /api/v1/holidays
func (h *HolidayHandler) Create(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	holiday, err := h.holidaySvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}
	response.Created(c, holiday)
}

// Delete 删除自定义节假日
// DELETE /api/v1/holidays/:id
func (h *HolidayHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.holidaySvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleHolidayError(c, err)
		return
	}
	response.OK(c, nil)
}

// Import 从 ICS 文件导入节假日
// POST /api/v1/holidays/import  (multipart, 字段 file)
func (h *HolidayHandler) Import(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, response.CodeValidation, "缺少上传文件 file")
		return
	}
	if fh.Size > service.ICSMaxFileSize {
		response.BadRequest(c, response.CodeValidation, "文件过大，最大 2MB")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, response.CodeValidation, "无法读取上传文件")
		return
	}
	defer f.Close()

	result, err := h.holidaySvc.ImportICS(c.Request.Context(), userID, f)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *HolidayHandler) handleHolidayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHolidayExists):
		response.Conflict(c, 13001, "该日期已设置自定义节假日")
	case errors.Is(err, service.ErrInvalidICS):
		response.BadRequest(c, 13002, err.Error())
	default:
		handleCommonError(c, err)
	}
}
