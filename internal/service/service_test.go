package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AJ4200/whatiearn/config"
	"github.com/AJ4200/whatiearn/internal/model"
	"github.com/AJ4200/whatiearn/internal/payroll"
	"github.com/AJ4200/whatiearn/pkg/jwt"
)

// ── 测试辅助 ──

const testUser = "user-test"

// testClock 可推进的固定时钟
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Set(hhmm string) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		panic(err)
	}
	y, m, d := c.now.Date()
	c.now = time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.UTC)
}

// newTestClock date 为 YYYY-MM-DD，时刻 hhmm（UTC）
func newTestClock(date, hhmm string) *testClock {
	t, err := time.Parse("2006-01-02 15:04", date+" "+hhmm)
	if err != nil {
		panic(err)
	}
	return &testClock{now: t}
}

func testPayrollConfig() *config.PayrollConfig {
	return &config.PayrollConfig{
		Timezone:               "UTC",
		ValuationPolicy:        string(payroll.PolicyStacked),
		OvertimeThresholdHours: 8,
		OvertimeMultiplier:     1.5,
		HolidayMultiplier:      2,
		PayPeriodStartDay:      21,
		DefaultNormalRate:      100,
		DefaultSundayRate:      150,
		DefaultHolidayRate:     200,
		DefaultCompanyName:     "Acme",
	}
}

func setupTestServices(t *testing.T, clk *testClock) (*Service, *mockRepos) {
	t.Helper()
	pr, err := NewPayroll(testPayrollConfig(), clk.Now)
	if err != nil {
		t.Fatalf("NewPayroll 应成功: %v", err)
	}
	repo, mocks := newMockRepos()
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-0123456789",
		AccessTokenTTL: time.Hour,
	})
	return NewService(repo, pr, jwtMgr, nil, zap.NewNop()), mocks
}

// addRecord 直接写入一条已完成记录（上班 08:00 UTC）
func addRecord(t *testing.T, m *mockRepos, date string, h float64, wt payroll.WorkType, rate float64) *model.WorkRecord {
	t.Helper()
	in, err := time.Parse("2006-01-02 15:04", date+" 08:00")
	if err != nil {
		t.Fatalf("日期无效: %v", err)
	}
	out := in.Add(time.Duration(h * float64(time.Hour)))
	r := &model.WorkRecord{
		UserID:     testUser,
		Date:       date,
		ClockIn:    in,
		ClockOut:   &out,
		WorkType:   string(wt),
		Rate:       decimalOf(rate),
		TotalHours: h,
	}
	r.Earnings = r.Rate.Mul(decimalOf(h)).Round(2)
	if err := m.records.Create(context.Background(), r); err != nil {
		t.Fatalf("写入记录失败: %v", err)
	}
	return r
}

func ptrTo[T any](v T) *T { return &v }
