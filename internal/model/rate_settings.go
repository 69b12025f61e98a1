package model

import "github.com/shopspring/decimal"

// RateSettings 时薪与工资单设置：对应 rate_settings，每个用户一行
type RateSettings struct {
	UserID       string          `gorm:"type:uuid;primaryKey"                  json:"userId"`
	NormalRate   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"normalRate"`
	SundayRate   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"sundayRate"`
	HolidayRate  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"holidayRate"`
	Deductions   DeductionList   `gorm:"type:text;not null"                    json:"deductions"`
	EmployeeName string          `gorm:"type:varchar(100);not null;default:''" json:"employeeName"`
	EmployeeID   string          `gorm:"type:varchar(50);not null;default:''"  json:"employeeId"`
	CompanyName  string          `gorm:"type:varchar(100);not null;default:''" json:"companyName"`
	BaseModel
}

// TableName 指定表名
func (RateSettings) TableName() string { return "rate_settings" }

// AllModels 需要建表的全部模型（SQLite AutoMigrate 使用）
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&WorkRecord{},
		&CustomHoliday{},
		&RateSettings{},
	}
}
