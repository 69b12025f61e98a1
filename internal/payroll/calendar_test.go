package payroll_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AJ4200/whatiearn/internal/payroll"
)

func newClassifier() *payroll.Classifier {
	return payroll.NewClassifier(payroll.DefaultPublicHolidays())
}

func TestClassify_NormalWeekday(t *testing.T) {
	info, err := newClassifier().ClassifyKey(context.Background(), "2025-01-08", nil)
	require.NoError(t, err)

	assert.Equal(t, payroll.WorkTypeNormal, info.WorkType)
	assert.False(t, info.IsSunday)
	assert.False(t, info.IsPublicHoliday)
	assert.False(t, info.IsCustomHoliday)
	assert.Empty(t, info.HolidayName)
}

func TestClassify_Sunday(t *testing.T) {
	info, err := newClassifier().ClassifyKey(context.Background(), "2025-01-05", nil)
	require.NoError(t, err)

	assert.Equal(t, payroll.WorkTypeSunday, info.WorkType)
	assert.True(t, info.IsSunday)
}

func TestClassify_PublicHoliday(t *testing.T) {
	info, err := newClassifier().ClassifyKey(context.Background(), "2025-12-25", nil)
	require.NoError(t, err)

	assert.Equal(t, payroll.WorkTypeHoliday, info.WorkType)
	assert.True(t, info.IsPublicHoliday)
	assert.Equal(t, "Christmas Day", info.HolidayName)
}

func TestClassify_SundayHolidayIsHoliday(t *testing.T) {
	// 2025-04-27 Freedom Day 恰逢周日
	info, err := newClassifier().ClassifyKey(context.Background(), "2025-04-27", nil)
	require.NoError(t, err)

	assert.True(t, info.IsSunday)
	assert.True(t, info.IsPublicHoliday)
	assert.Equal(t, payroll.WorkTypeHoliday, info.WorkType)
}

func TestClassify_CustomHolidayOnSunday(t *testing.T) {
	custom := payroll.HolidaySet{"2025-01-12": "Family trip"}

	info, err := newClassifier().ClassifyKey(context.Background(), "2025-01-12", custom)
	require.NoError(t, err)

	assert.Equal(t, payroll.WorkTypeHoliday, info.WorkType)
	assert.True(t, info.IsCustomHoliday)
	assert.Equal(t, "Family trip", info.HolidayName)
}

func TestClassify_YearOutsideTable(t *testing.T) {
	// 表中没有 2030 年：1 月 1 日按普通工作日处理
	info, err := newClassifier().ClassifyKey(context.Background(), "2030-01-01", nil)
	require.NoError(t, err)

	assert.False(t, info.IsPublicHoliday)
	assert.Equal(t, payroll.WorkTypeNormal, info.WorkType)
}

func TestClassify_LookupError(t *testing.T) {
	boom := errors.New("store down")
	lookup := payroll.CustomHolidayLookupFunc(func(context.Context, string) (string, bool, error) {
		return "", false, boom
	})

	_, err := newClassifier().ClassifyKey(context.Background(), "2025-01-08", lookup)
	assert.ErrorIs(t, err, boom)
}

func TestClassify_InvalidDate(t *testing.T) {
	_, err := newClassifier().ClassifyKey(context.Background(), "2025/01/08", nil)
	assert.ErrorIs(t, err, payroll.ErrInvalidDate)
}

func TestQuickWorkType_IgnoresCustomHolidays(t *testing.T) {
	c := newClassifier()

	d, _ := payroll.ParseDate("2025-01-08")
	assert.Equal(t, payroll.WorkTypeNormal, c.QuickWorkType(d))

	d, _ = payroll.ParseDate("2025-04-27")
	assert.Equal(t, payroll.WorkTypeHoliday, c.QuickWorkType(d))

	d, _ = payroll.ParseDate("2025-01-05")
	assert.Equal(t, payroll.WorkTypeSunday, c.QuickWorkType(d))
}

func TestHolidayTable_Merge(t *testing.T) {
	base := payroll.DefaultPublicHolidays()
	override := payroll.HolidayTable{
		2030: {{Date: "2030-01-01", Name: "New Year's Day"}},
	}
	merged := base.Merge(override)

	assert.Contains(t, merged.Years(), 2030)
	assert.Contains(t, merged.Years(), 2025)
	assert.Len(t, base.Years(), 3, "原表不应被修改")
}

func TestRateFor(t *testing.T) {
	rates := payroll.Rates{
		Normal:  dec("100"),
		Sunday:  dec("150"),
		Holiday: dec("200"),
	}
	assert.True(t, payroll.RateFor(payroll.WorkTypeNormal, rates).Equal(dec("100")))
	assert.True(t, payroll.RateFor(payroll.WorkTypeSunday, rates).Equal(dec("150")))
	assert.True(t, payroll.RateFor(payroll.WorkTypeHoliday, rates).Equal(dec("200")))
}
