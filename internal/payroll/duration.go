package payroll

import (
	"math"
	"time"
)

// Duration 计算净工时（小时）
//
// clockOut 为空时以 now 作为结束时间，进行中的区间随时间单调增长；
// 休息起止均存在时扣除休息时长；结果下限为 0（时钟偏差或顺序错误不报错）。
func Duration(clockIn time.Time, clockOut, breakStart, breakEnd *time.Time, now time.Time) float64 {
	end := now
	if clockOut != nil {
		end = *clockOut
	}
	minutes := end.Sub(clockIn).Minutes()

	if breakStart != nil && breakEnd != nil {
		minutes -= breakEnd.Sub(*breakStart).Minutes()
	}

	return math.Max(0, minutes/60)
}

// BreakMinutes 休息分钟数
// includeOpen 为 true 时，进行中的休息计算到 now
func BreakMinutes(breakStart, breakEnd *time.Time, now time.Time, includeOpen bool) float64 {
	if breakStart == nil {
		return 0
	}
	end := breakEnd
	if end == nil {
		if !includeOpen {
			return 0
		}
		end = &now
	}
	return math.Max(0, end.Sub(*breakStart).Minutes())
}

// LiveHours 实时工时：进行中的休息同样扣除
// 仅用于展示"进行中"的区间，落库使用 Duration
func LiveHours(clockIn time.Time, clockOut, breakStart, breakEnd *time.Time, now time.Time) float64 {
	end := now
	if clockOut != nil {
		end = *clockOut
	}
	minutes := end.Sub(clockIn).Minutes() - BreakMinutes(breakStart, breakEnd, end, true)
	return math.Max(0, minutes/60)
}

// ValidateBreak 校验时间区间的一致性
//
//   - clockOut 存在时不得早于 clockIn
//   - breakEnd 存在时 breakStart 必须存在，且不得早于 breakStart
//   - 已下班的区间不允许只有 breakStart（休息进行中只出现在进行中的区间）
//   - 休息区间必须包含于 [clockIn, clockOut]（clockOut 为空时只校验下界）
func ValidateBreak(clockIn time.Time, clockOut, breakStart, breakEnd *time.Time) error {
	if clockOut != nil && clockOut.Before(clockIn) {
		return ErrClockOutBeforeClockIn
	}
	if breakEnd != nil && breakStart == nil {
		return ErrBreakEndWithoutStart
	}
	if breakStart == nil {
		return nil
	}
	if clockOut != nil && breakEnd == nil {
		return ErrBreakStartWithoutEnd
	}
	if breakStart.Before(clockIn) {
		return ErrBreakOutsideInterval
	}
	if clockOut != nil && breakStart.After(*clockOut) {
		return ErrBreakOutsideInterval
	}
	if breakEnd != nil {
		if breakEnd.Before(*breakStart) {
			return ErrBreakEndBeforeStart
		}
		if clockOut != nil && breakEnd.After(*clockOut) {
			return ErrBreakOutsideInterval
		}
	}
	return nil
}
