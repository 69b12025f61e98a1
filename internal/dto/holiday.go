package dto

// ── 自定义节假日 DTO ──

// CreateHolidayRequest 新建自定义节假日
type CreateHolidayRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// HolidayListRequest 列表查询参数
type HolidayListRequest struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to"   binding:"omitempty,datetime=2006-01-02"`
}

// HolidayResponse 自定义节假日
type HolidayResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

// ImportHolidaysResponse ICS 导入结果
type ImportHolidaysResponse struct {
	Parsed   int      `json:"parsed"`   // 解析到的全天事件数
	Imported int      `json:"imported"` // 实际新增
	Skipped  int      `json:"skipped"`  // 日期已存在
	Warnings []string `json:"warnings,omitempty"`
}

// DayInfoResponse 日期分类
type DayInfoResponse struct {
	Date            string  `json:"date"`
	WorkType        string  `json:"workType"`
	IsPublicHoliday bool    `json:"isPublicHoliday"`
	IsCustomHoliday bool    `json:"isCustomHoliday"`
	IsSunday        bool    `json:"isSunday"`
	HolidayName     string  `json:"holidayName,omitempty"`
	Rate            float64 `json:"rate"`
}
