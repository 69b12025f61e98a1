package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/service"
	"github.com/AJ4200/whatiearn/pkg/response"
)

// SettingsHandler 用户设置 HTTP 处理器
type SettingsHandler struct {
	settingsSvc service.SettingsService
}

// NewSettingsHandler 创建 SettingsHandler
func NewSettingsHandler(settingsSvc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc}
}

// Get 读取设置（首次读取写入默认值）
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	settings, err := h.settingsSvc.Get(c.Request.Context(), userID)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, settings)
}

// Update 部分更新设置
// PUT /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	settings, err := h.settingsSvc.Update(c.Request.Context(), userID, &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, settings)
}
