package payroll

import "errors"

var (
	ErrInvalidDate     = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidWorkType = errors.New("工作类型无效")
	ErrInvalidRange    = errors.New("日期范围无效：结束日期早于开始日期")

	// 时间区间校验
	ErrClockOutBeforeClockIn = errors.New("下班时间不能早于上班时间")
	ErrBreakEndWithoutStart  = errors.New("休息结束时间缺少对应的开始时间")
	ErrBreakStartWithoutEnd  = errors.New("已完成的记录休息开始后必须有结束时间")
	ErrBreakEndBeforeStart   = errors.New("休息结束时间不能早于开始时间")
	ErrBreakOutsideInterval  = errors.New("休息时间必须位于上下班时间之内")
)
