package dto

// ── 设置模块 DTO ──

// DeductionItem 扣款项
type DeductionItem struct {
	Name   string  `json:"name"   binding:"required,max=100"`
	Amount float64 `json:"amount" binding:"min=0"`
}

// UpdateSettingsRequest 部分更新（仅提交的字段覆盖）
// Deductions 提交时整体替换列表
type UpdateSettingsRequest struct {
	NormalRate   *float64         `json:"normalRate"   binding:"omitempty,min=0"`
	SundayRate   *float64         `json:"sundayRate"   binding:"omitempty,min=0"`
	HolidayRate  *float64         `json:"holidayRate"  binding:"omitempty,min=0"`
	Deductions   *[]DeductionItem `json:"deductions"    binding:"omitempty,dive"`
	EmployeeName *string          `json:"employeeName" binding:"omitempty,max=100"`
	EmployeeID   *string          `json:"employeeId"   binding:"omitempty,max=50"`
	CompanyName  *string          `json:"companyName"  binding:"omitempty,max=100"`
}

// SettingsResponse 当前设置
type SettingsResponse struct {
	NormalRate   float64         `json:"normalRate"`
	SundayRate   float64         `json:"sundayRate"`
	HolidayRate  float64         `json:"holidayRate"`
	Deductions   []DeductionItem `json:"deductions"`
	EmployeeName string          `json:"employeeName"`
	EmployeeID   string          `json:"employeeId"`
	CompanyName  string          `json:"companyName"`
	UpdatedAt    string          `json:"updatedAt"`
}
