package payroll

import (
	"context"
	"sort"
	"time"
)

// PublicHoliday 公共假日
type PublicHoliday struct {
	Date string `mapstructure:"date" json:"date"`
	Name string `mapstructure:"name" json:"name"`
}

// HolidayTable 按年份索引的公共假日表
// 表中没有的年份视为无公共假日（分类回落到周日/普通规则）
type HolidayTable map[int][]PublicHoliday

// Lookup 按日期键查找公共假日
func (t HolidayTable) Lookup(date time.Time) (PublicHoliday, bool) {
	key := DateKey(date)
	for _, h := range t[date.Year()] {
		if h.Date == key {
			return h, true
		}
	}
	return PublicHoliday{}, false
}

// Years 表中已覆盖的年份（升序）
func (t HolidayTable) Years() []int {
	years := make([]int, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Merge 合并另一张表，同年份以 other 为准
func (t HolidayTable) Merge(other HolidayTable) HolidayTable {
	merged := make(HolidayTable, len(t)+len(other))
	for y, hs := range t {
		merged[y] = hs
	}
	for y, hs := range other {
		merged[y] = hs
	}
	return merged
}

// CustomHolidayLookup 自定义节假日查询（通常由存储层实现）
type CustomHolidayLookup interface {
	CustomHolidayName(ctx context.Context, date string) (name string, found bool, err error)
}

// CustomHolidayLookupFunc 函数适配器
type CustomHolidayLookupFunc func(ctx context.Context, date string) (string, bool, error)

// CustomHolidayName 实现 CustomHolidayLookup
func (f CustomHolidayLookupFunc) CustomHolidayName(ctx context.Context, date string) (string, bool, error) {
	return f(ctx, date)
}

// HolidaySet 已加载到内存的自定义节假日：日期键 → 名称
type HolidaySet map[string]string

// CustomHolidayName 实现 CustomHolidayLookup
func (s HolidaySet) CustomHolidayName(_ context.Context, date string) (string, bool, error) {
	name, ok := s[date]
	return name, ok, nil
}

// DayTypeInfo 日期分类结果
type DayTypeInfo struct {
	Date            string   `json:"date"`
	WorkType        WorkType `json:"workType"`
	IsPublicHoliday bool     `json:"isPublicHoliday"`
	IsCustomHoliday bool     `json:"isCustomHoliday"`
	IsSunday        bool     `json:"isSunday"`
	HolidayName     string   `json:"holidayName,omitempty"`
}

// Classifier 日期分类器
type Classifier struct {
	table HolidayTable
}

// NewClassifier 创建分类器；table 为 nil 时不识别任何公共假日
func NewClassifier(table HolidayTable) *Classifier {
	if table == nil {
		table = HolidayTable{}
	}
	return &Classifier{table: table}
}

// Table 当前使用的公共假日表
func (c *Classifier) Table() HolidayTable { return c.table }

// Classify 判定日期的工作类型
//
// 优先级：公共假日或自定义节假日 → holiday；否则周日 → sunday；否则 normal。
// 周日恰逢节假日时归为 holiday。
func (c *Classifier) Classify(ctx context.Context, date time.Time, lookup CustomHolidayLookup) (DayTypeInfo, error) {
	date = dateOnly(date)
	key := DateKey(date)

	info := DayTypeInfo{
		Date:     key,
		WorkType: WorkTypeNormal,
		IsSunday: date.Weekday() == time.Sunday,
	}

	if public, ok := c.table.Lookup(date); ok {
		info.IsPublicHoliday = true
		info.HolidayName = public.Name
	}

	if lookup != nil {
		name, found, err := lookup.CustomHolidayName(ctx, key)
		if err != nil {
			return DayTypeInfo{}, err
		}
		if found {
			info.IsCustomHoliday = true
			info.HolidayName = name
		}
	}

	switch {
	case info.IsPublicHoliday || info.IsCustomHoliday:
		info.WorkType = WorkTypeHoliday
	case info.IsSunday:
		info.WorkType = WorkTypeSunday
	}
	return info, nil
}

// ClassifyKey 同 Classify，入参为日期键
func (c *Classifier) ClassifyKey(ctx context.Context, date string, lookup CustomHolidayLookup) (DayTypeInfo, error) {
	d, err := ParseDate(date)
	if err != nil {
		return DayTypeInfo{}, err
	}
	return c.Classify(ctx, d, lookup)
}

// QuickWorkType 仅用于界面快速渲染的同步分类（不查询自定义节假日）。
// 会漏判自定义节假日，禁止用于计薪与持久化。
func (c *Classifier) QuickWorkType(date time.Time) WorkType {
	date = dateOnly(date)
	if _, ok := c.table.Lookup(date); ok {
		return WorkTypeHoliday
	}
	if date.Weekday() == time.Sunday {
		return WorkTypeSunday
	}
	return WorkTypeNormal
}
