package dto

// ── 打卡模块 DTO ──

// ClockRequest 上下班打卡
type ClockRequest struct {
	Action string `json:"action" binding:"required,oneof=in out"`
}

// BreakRequest 开始/结束休息
type BreakRequest struct {
	Action string `json:"action" binding:"required,oneof=start end"`
}

// CurrentStatusResponse 当前打卡状态
type CurrentStatusResponse struct {
	ClockedIn bool `json:"clockedIn"`
	OnBreak   bool `json:"onBreak"`
	// CanStartBreak 每条记录仅允许一次休息
	CanStartBreak  bool                `json:"canStartBreak"`
	ActiveRecord   *WorkRecordResponse `json:"activeRecord,omitempty"`
	LiveHours      float64             `json:"liveHours"`
	Today          DayInfoResponse     `json:"today"`
	ApplicableRate float64             `json:"applicableRate"`
}

// TodayStatsResponse 今日统计（进行中的区间计算到当前时刻）
type TodayStatsResponse struct {
	Date           string  `json:"date"`
	HoursWorked    float64 `json:"hoursWorked"`
	RegularHours   float64 `json:"regularHours"`
	OvertimeHours  float64 `json:"overtimeHours"`
	BreakMinutes   float64 `json:"breakMinutes"`
	Earnings       float64 `json:"earnings"`
	HolidayApplied bool    `json:"holidayApplied"`
	Records        int     `json:"records"`
	InProgress     bool    `json:"inProgress"`
}
