package model

import "gorm.io/gorm"

// CustomHoliday 用户自定义节假日：对应 custom_holidays
// 同一用户同一日期仅一条
type CustomHoliday struct {
	CustomHolidayID string `gorm:"type:uuid;primaryKey"                                                 json:"customHolidayId"`
	UserID          string `gorm:"type:uuid;not null;uniqueIndex:uk_custom_holidays_user_date,priority:1" json:"userId"`
	Date            string `gorm:"type:varchar(10);not null;uniqueIndex:uk_custom_holidays_user_date,priority:2" json:"date"`
	Name            string `gorm:"type:varchar(100);not null"                                           json:"name"`
	BaseModel
}

// TableName 指定表名
func (CustomHoliday) TableName() string { return "custom_holidays" }

// BeforeCreate 生成主键
func (h *CustomHoliday) BeforeCreate(*gorm.DB) error {
	newID(&h.CustomHolidayID)
	return nil
}
