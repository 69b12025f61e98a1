package dto

// ── 报表模块 DTO ──

// ReportRequest 报表查询：from/to 优先，否则按 period + date 推算
type ReportRequest struct {
	Period string `form:"period" binding:"omitempty,oneof=week month year payperiod"`
	Date   string `form:"date"   binding:"omitempty,datetime=2006-01-02"`
	From   string `form:"from"   binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to"     binding:"omitempty,datetime=2006-01-02"`
}

// ExportRequest 导出参数
type ExportRequest struct {
	ReportRequest
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

// PayPeriodRequest 发薪周期查询：offset 为相对 date 所在周期的偏移
type PayPeriodRequest struct {
	Date   string `form:"date"   binding:"omitempty,datetime=2006-01-02"`
	Offset int    `form:"offset" binding:"min=-120,max=120"`
}

// PayPeriodResponse 发薪周期
type PayPeriodResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// DailyEntryResponse 单日汇总
type DailyEntryResponse struct {
	Date          string  `json:"date"`
	DayType       string  `json:"dayType"`
	HolidayName   string  `json:"holidayName,omitempty"`
	Hours         float64 `json:"hours"`
	OvertimeHours float64 `json:"overtimeHours"`
	Earnings      float64 `json:"earnings"`
	Records       int     `json:"records"`
}

// SummaryResponse 区间汇总
type SummaryResponse struct {
	TotalHours     float64 `json:"totalHours"`
	TotalEarnings  float64 `json:"totalEarnings"`
	WorkDays       int     `json:"workDays"`
	AvgHoursPerDay float64 `json:"avgHoursPerDay"`
}

// TypeTotalsResponse 单一工作类型合计
type TypeTotalsResponse struct {
	Hours    float64 `json:"hours"`
	Earnings float64 `json:"earnings"`
	Records  int     `json:"records"`
}

// BreakdownResponse 按工作类型拆分
type BreakdownResponse struct {
	Normal  TypeTotalsResponse `json:"normal"`
	Sunday  TypeTotalsResponse `json:"sunday"`
	Holiday TypeTotalsResponse `json:"holiday"`
}

// InProgressResponse 进行中的区间（不计入汇总）
type InProgressResponse struct {
	Record    WorkRecordResponse `json:"record"`
	LiveHours float64            `json:"liveHours"`
	OnBreak   bool               `json:"onBreak"`
}

// ReportResponse 报表
type ReportResponse struct {
	From            string               `json:"from"`
	To              string               `json:"to"`
	Period          string               `json:"period,omitempty"`
	Policy          string               `json:"valuationPolicy"`
	Daily           []DailyEntryResponse `json:"daily"`
	Summary         SummaryResponse      `json:"summary"`
	Breakdown       BreakdownResponse    `json:"breakdownByType"`
	Deductions      []DeductionItem      `json:"deductions"`
	TotalDeductions float64              `json:"totalDeductions"`
	NetEarnings     float64              `json:"netEarnings"`
	InProgress      *InProgressResponse  `json:"inProgress,omitempty"`
}

// PayslipRequest 工资单：date 所在发薪周期偏移 offset 个周期
type PayslipRequest struct {
	Date   string `form:"date"   binding:"omitempty,datetime=2006-01-02"`
	Offset int    `form:"offset" binding:"min=-120,max=120"`
}

// PayslipResponse 工资单
type PayslipResponse struct {
	Period          PayPeriodResponse `json:"period"`
	EmployeeName    string            `json:"employeeName"`
	EmployeeID      string            `json:"employeeId"`
	CompanyName     string            `json:"companyName"`
	Rates           RatesResponse     `json:"rates"`
	Breakdown       BreakdownResponse `json:"breakdownByType"`
	WorkDays        int               `json:"workDays"`
	TotalHours      float64           `json:"totalHours"`
	GrossEarnings   float64           `json:"grossEarnings"`
	Deductions      []DeductionItem   `json:"deductions"`
	TotalDeductions float64           `json:"totalDeductions"`
	NetEarnings     float64           `json:"netEarnings"`
	GeneratedAt     string            `json:"generatedAt"`
}

// RatesResponse 三档时薪
type RatesResponse struct {
	Normal  float64 `json:"normal"`
	Sunday  float64 `json:"sunday"`
	Holiday float64 `json:"holiday"`
}

// EstimateRequest 工资估算：按类型输入工时；deductions 为空时使用设置中的扣款
type EstimateRequest struct {
	NormalHours  float64          `json:"normalHours"  binding:"min=0,max=10000"`
	SundayHours  float64          `json:"sundayHours"  binding:"min=0,max=10000"`
	HolidayHours float64          `json:"holidayHours" binding:"min=0,max=10000"`
	Deductions   *[]DeductionItem `json:"deductions"   binding:"omitempty,dive"`
}

// EstimateLineResponse 单一工作类型的估算
type EstimateLineResponse struct {
	WorkType string  `json:"workType"`
	Hours    float64 `json:"hours"`
	Rate     float64 `json:"rate"`
	Amount   float64 `json:"amount"`
}

// EstimateResponse 工资估算结果
type EstimateResponse struct {
	Policy          string                 `json:"valuationPolicy"`
	Lines           []EstimateLineResponse `json:"lines"`
	TotalHours      float64                `json:"totalHours"`
	GrossEarnings   float64                `json:"grossEarnings"`
	Deductions      []DeductionItem        `json:"deductions"`
	TotalDeductions float64                `json:"totalDeductions"`
	NetEarnings     float64                `json:"netEarnings"`
}
