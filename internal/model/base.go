package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── 扣款列表 JSON 列 ──

// Deduction 单项固定扣款
type Deduction struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// DeductionList 以 JSON 文本存储的有序扣款列表，实现 GORM Scanner/Valuer 接口。
type DeductionList []Deduction

// Scan 将数据库中的 JSON 文本解析为扣款列表。
func (l *DeductionList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("DeductionList.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*l = DeductionList{}
		return nil
	}
	var out DeductionList
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("DeductionList.Scan: %w", err)
	}
	*l = out
	return nil
}

// Value 序列化为 JSON 文本，nil 存为 []。
func (l DeductionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// newID 主键在应用侧生成，PostgreSQL 与 SQLite 行为一致
func newID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}
