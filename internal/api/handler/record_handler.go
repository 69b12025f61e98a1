package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/service"
	"github.com/AJ4200/whatiearn/pkg/response"
)

// RecordHandler 工作记录 HTTP 处理器
type RecordHandler struct {
	recordSvc service.WorkRecordService
}

// NewRecordHandler 创建 RecordHandler
func NewRecordHandler(recordSvc service.WorkRecordService) *RecordHandler {
	return &RecordHandler{recordSvc: recordSvc}
}

// List 分页查询工作记录
// GET /api/v1/records?page=1&pageSize=20&from=&to=&workType=
func (h *RecordHandler) List(c *gin.Context) {
	var req dto.WorkRecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, total, err := h.recordSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 获取单条记录
// GET /api/v1/records/:id
func (h *RecordHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	record, err := h.recordSvc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, record)
}

// Update 修改已完成记录，按当前费率与日历重新计算
// PUT /api/v1/records/:id
func (h *RecordHandler) Update(c *gin.Context) {
	var req dto.UpdateWorkRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.recordSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, record)
}

// Delete 删除记录
// DELETE /api/v1/records/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.recordSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, nil)
}

// ManualEntry 补录一天的工时
// POST /api/v1/records/manual
func (h *RecordHandler) ManualEntry(c *gin.Context) {
	var req dto.ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.recordSvc.ManualEntry(c.Request.Context(), userID, &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.Created(c, result)
}
