package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WorkRecord 工作记录表：对应 work_records
//
// 同一用户同时最多一条 is_active=true 的记录，由部分唯一索引保证；
// Rate 为计薪时的时薪快照，Earnings 为 TotalHours × Rate 的基础金额。
type WorkRecord struct {
	WorkRecordID  string          `gorm:"type:uuid;primaryKey"                                                             json:"workRecordId"`
	UserID        string          `gorm:"type:uuid;not null;index:idx_work_records_user_date,priority:1;index:idx_work_records_user_active,unique,where:is_active = true" json:"userId"`
	Date          string          `gorm:"type:varchar(10);not null;index:idx_work_records_user_date,priority:2"            json:"date"` // YYYY-MM-DD
	ClockIn       time.Time       `gorm:"not null"                                                                         json:"clockIn"`
	ClockOut      *time.Time      `json:"clockOut,omitempty"`
	BreakStart    *time.Time      `json:"breakStart,omitempty"`
	BreakEnd      *time.Time      `json:"breakEnd,omitempty"`
	WorkType      string          `gorm:"type:varchar(10);not null;default:'normal'"                                       json:"workType"` // normal | sunday | holiday
	Rate          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"                                            json:"rate"`
	TotalHours    float64         `gorm:"not null;default:0"                                                               json:"totalHours"`
	Earnings      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"                                            json:"earnings"`
	IsActive      bool            `gorm:"not null;default:false"                                                           json:"isActive"`
	IsManualEntry bool            `gorm:"not null;default:false"                                                           json:"isManualEntry"`
	BaseModel
}

// TableName 指定表名
func (WorkRecord) TableName() string { return "work_records" }

// BeforeCreate 生成主键
func (r *WorkRecord) BeforeCreate(*gorm.DB) error {
	newID(&r.WorkRecordID)
	return nil
}

// OnBreak 休息进行中
func (r *WorkRecord) OnBreak() bool {
	return r.BreakStart != nil && r.BreakEnd == nil
}
