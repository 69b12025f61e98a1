package dto

// ── 工作记录模块 DTO ──

// WorkRecordListRequest 记录列表查询参数
type WorkRecordListRequest struct {
	PaginationRequest
	From     string `form:"from"      binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to"        binding:"omitempty,datetime=2006-01-02"`
	WorkType string `form:"workType" binding:"omitempty,oneof=normal sunday holiday"`
}

// UpdateWorkRecordRequest 手动修改已完成记录（指针字段：仅提交的字段生效）
// 时间字段为 RFC3339；ClearBreak=true 时清除休息
type UpdateWorkRecordRequest struct {
	ClockIn    *string  `json:"clockIn"    binding:"omitempty"`
	ClockOut   *string  `json:"clockOut"   binding:"omitempty"`
	BreakStart *string  `json:"breakStart" binding:"omitempty"`
	BreakEnd   *string  `json:"breakEnd"   binding:"omitempty"`
	ClearBreak bool     `json:"clearBreak"`
	WorkType   *string  `json:"workType"   binding:"omitempty,oneof=normal sunday holiday"`
	Rate       *float64 `json:"rate"        binding:"omitempty,min=0"`
}

// ManualEntryRequest 日历手动录入：以 09:00 为上班时间生成当天的已完成记录
type ManualEntryRequest struct {
	Date          string  `json:"date"           binding:"required,datetime=2006-01-02"`
	Hours         float64 `json:"hours"          binding:"min=0,max=24"`
	WorkType      *string `json:"workType"      binding:"omitempty,oneof=normal sunday holiday"`
	MarkAsHoliday *bool   `json:"markAsHoliday"`
	HolidayName   string  `json:"holidayName"   binding:"omitempty,max=100"`
}

// WorkRecordResponse 工作记录
type WorkRecordResponse struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	ClockIn       string  `json:"clockIn"`
	ClockOut      string  `json:"clockOut,omitempty"`
	BreakStart    string  `json:"breakStart,omitempty"`
	BreakEnd      string  `json:"breakEnd,omitempty"`
	WorkType      string  `json:"workType"`
	Rate          float64 `json:"rate"`
	TotalHours    float64 `json:"totalHours"`
	Earnings      float64 `json:"earnings"`
	IsActive      bool    `json:"isActive"`
	IsManualEntry bool    `json:"isManualEntry"`
	// BreakTaken 已完成过一次休息，不能再开始新的休息
	BreakTaken bool `json:"breakTaken"`
}

// ManualEntryResponse 手动录入结果
type ManualEntryResponse struct {
	Record  *WorkRecordResponse `json:"record,omitempty"`
	Holiday *HolidayResponse    `json:"holiday,omitempty"`
	// HolidayRemoved 本次操作取消了该日期的自定义节假日
	HolidayRemoved bool `json:"holidayRemoved"`
}
