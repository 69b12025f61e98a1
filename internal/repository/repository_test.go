package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AJ4200/whatiearn/internal/model"
	"github.com/AJ4200/whatiearn/internal/repository"
	"github.com/AJ4200/whatiearn/pkg/database"
)

// 基于内存 SQLite 的仓储测试，无需外部服务

func newTestRepo(t *testing.T) (*repository.Repository, *gorm.DB) {
	t.Helper()
	db, err := database.OpenMemory(model.AllModels()...)
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repository.NewRepository(db), db
}

func createUser(t *testing.T, repo *repository.Repository, email string) *model.User {
	t.Helper()
	u := &model.User{Name: "Test", Email: email, PasswordHash: "hash"}
	if err := repo.User.Create(context.Background(), u); err != nil {
		t.Fatalf("创建用户应成功: %v", err)
	}
	return u
}

func clockIn(date string, hour int) time.Time {
	d, _ := time.Parse("2006-01-02", date)
	return d.Add(time.Duration(hour) * time.Hour)
}

// ── User ──

func TestUserRepo_EmailNormalizedAndUnique(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	u := createUser(t, repo, "  Alice@Example.COM ")
	if u.UserID == "" {
		t.Fatal("主键应由 BeforeCreate 生成")
	}

	got, err := repo.User.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("按邮箱查询应成功: %v", err)
	}
	if got.UserID != u.UserID {
		t.Errorf("期望 UserID=%s，实际=%s", u.UserID, got.UserID)
	}

	dup := &model.User{Name: "Other", Email: "alice@example.com", PasswordHash: "x"}
	if err := repo.User.Create(ctx, dup); err == nil {
		t.Error("重复邮箱应被唯一索引拒绝")
	}
}

// ── WorkRecord ──

func TestWorkRecordRepo_SingleActivePerUser(t *testing.T) {
	repo, db := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "a@example.com")
	other := createUser(t, repo, "b@example.com")

	first := &model.WorkRecord{UserID: u.UserID, Date: "2025-01-08", ClockIn: clockIn("2025-01-08", 8), WorkType: "normal", IsActive: true}
	if err := repo.WorkRecord.Create(ctx, first); err != nil {
		t.Fatalf("创建进行中记录应成功: %v", err)
	}

	second := &model.WorkRecord{UserID: u.UserID, Date: "2025-01-08", ClockIn: clockIn("2025-01-08", 9), WorkType: "normal", IsActive: true}
	if err := repo.WorkRecord.Create(ctx, second); err == nil {
		t.Fatal("同一用户第二条进行中记录应被拒绝")
	}

	// 其他用户不受影响
	theirs := &model.WorkRecord{UserID: other.UserID, Date: "2025-01-08", ClockIn: clockIn("2025-01-08", 9), WorkType: "normal", IsActive: true}
	if err := repo.WorkRecord.Create(ctx, theirs); err != nil {
		t.Fatalf("其他用户创建进行中记录应成功: %v", err)
	}

	var count int64
	db.Model(&model.WorkRecord{}).Where("user_id = ? AND is_active = ?", u.UserID, true).Count(&count)
	if count != 1 {
		t.Errorf("期望恰好 1 条进行中记录，实际=%d", count)
	}

	// 已完成记录不受索引限制
	for i := 0; i < 2; i++ {
		done := &model.WorkRecord{UserID: u.UserID, Date: "2025-01-07", ClockIn: clockIn("2025-01-07", 8+i), WorkType: "normal"}
		if err := repo.WorkRecord.Create(ctx, done); err != nil {
			t.Fatalf("创建已完成记录应成功: %v", err)
		}
	}
}

func TestWorkRecordRepo_GetActiveAndUpdate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "a@example.com")

	if _, err := repo.WorkRecord.GetActive(ctx, u.UserID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("无进行中记录时期望 ErrRecordNotFound，实际: %v", err)
	}

	rec := &model.WorkRecord{UserID: u.UserID, Date: "2025-01-08", ClockIn: clockIn("2025-01-08", 8), WorkType: "normal", Rate: decimal.NewFromInt(100), IsActive: true}
	if err := repo.WorkRecord.Create(ctx, rec); err != nil {
		t.Fatalf("创建应成功: %v", err)
	}

	active, err := repo.WorkRecord.GetActive(ctx, u.UserID)
	if err != nil {
		t.Fatalf("GetActive 应成功: %v", err)
	}

	out := clockIn("2025-01-08", 17)
	active.ClockOut = &out
	active.IsActive = false
	active.TotalHours = 9
	active.Earnings = decimal.NewFromInt(900)
	if err := repo.WorkRecord.Update(ctx, active); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	got, err := repo.WorkRecord.GetByID(ctx, u.UserID, rec.WorkRecordID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if got.IsActive || got.ClockOut == nil {
		t.Error("记录应已完成")
	}
	if !got.Earnings.Equal(decimal.NewFromInt(900)) {
		t.Errorf("期望 earnings=900，实际=%s", got.Earnings)
	}
	if !got.Rate.Equal(decimal.NewFromInt(100)) {
		t.Errorf("期望 rate=100，实际=%s", got.Rate)
	}
}

func TestWorkRecordRepo_ListFilters(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "a@example.com")

	seed := []model.WorkRecord{
		{UserID: u.UserID, Date: "2025-01-05", ClockIn: clockIn("2025-01-05", 8), WorkType: "sunday"},
		{UserID: u.UserID, Date: "2025-01-06", ClockIn: clockIn("2025-01-06", 8), WorkType: "normal"},
		{UserID: u.UserID, Date: "2025-01-07", ClockIn: clockIn("2025-01-07", 8), WorkType: "normal"},
		{UserID: u.UserID, Date: "2025-01-08", ClockIn: clockIn("2025-01-08", 8), WorkType: "normal", IsActive: true},
	}
	for i := range seed {
		if err := repo.WorkRecord.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("创建记录应成功: %v", err)
		}
	}

	all, err := repo.WorkRecord.List(ctx, u.UserID, repository.WorkRecordFilter{From: "2025-01-06", To: "2025-01-08"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("期望 3 条，实际=%d", len(all))
	}

	completed, _ := repo.WorkRecord.List(ctx, u.UserID, repository.WorkRecordFilter{CompletedOnly: true})
	if len(completed) != 3 {
		t.Errorf("期望 3 条已完成记录，实际=%d", len(completed))
	}

	sundays, _ := repo.WorkRecord.List(ctx, u.UserID, repository.WorkRecordFilter{WorkType: "sunday"})
	if len(sundays) != 1 || sundays[0].Date != "2025-01-05" {
		t.Errorf("期望 1 条 sunday 记录，实际=%v", sundays)
	}

	page, total, err := repo.WorkRecord.ListPaged(ctx, u.UserID, repository.WorkRecordFilter{}, 0, 2)
	if err != nil {
		t.Fatalf("ListPaged 应成功: %v", err)
	}
	if total != 4 || len(page) != 2 {
		t.Errorf("期望 total=4 len=2，实际 total=%d len=%d", total, len(page))
	}
	if page[0].Date != "2025-01-08" {
		t.Errorf("分页应按日期倒序，首条=%s", page[0].Date)
	}
}

func TestWorkRecordRepo_DeleteScopedToUser(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "a@example.com")
	other := createUser(t, repo, "b@example.com")

	rec := &model.WorkRecord{UserID: u.UserID, Date: "2025-01-06", ClockIn: clockIn("2025-01-06", 8), WorkType: "normal"}
	if err := repo.WorkRecord.Create(ctx, rec); err != nil {
		t.Fatalf("创建应成功: %v", err)
	}

	if err := repo.WorkRecord.Delete(ctx, other.UserID, rec.WorkRecordID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("删除他人记录期望 ErrRecordNotFound，实际: %v", err)
	}
	if err := repo.WorkRecord.Delete(ctx, u.UserID, rec.WorkRecordID); err != nil {
		t.Errorf("删除自己的记录应成功: %v", err)
	}
}

// ── CustomHoliday ──

func TestCustomHolidayRepo_UniquePerDateAndBatchImport(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "a@example.com")

	h := &model.CustomHoliday{UserID: u.UserID, Date: "2025-01-08", Name: "Team day"}
	if err := repo.CustomHoliday.Create(ctx, h); err != nil {
		t.Fatalf("创建应成功: %v", err)
	}
	if err := repo.CustomHoliday.Create(ctx, &model.CustomHoliday{UserID: u.UserID, Date: "2025-01-08", Name: "Again"}); err == nil {
		t.Error("同一日期重复创建应失败")
	}

	n, err := repo.CustomHoliday.CreateIgnoreDuplicates(ctx, []model.CustomHoliday{
		{UserID: u.UserID, Date: "2025-01-08", Name: "Dup"},
		{UserID: u.UserID, Date: "2025-02-14", Name: "Valentine"},
	})
	if err != nil {
		t.Fatalf("批量导入应成功: %v", err)
	}
	if n != 1 {
		t.Errorf("期望插入 1 条，实际=%d", n)
	}

	list, _ := repo.CustomHoliday.List(ctx, u.UserID, "2025-01-01", "2025-01-31")
	if len(list) != 1 || list[0].Name != "Team day" {
		t.Errorf("期望 1 月仅 Team day，实际=%v", list)
	}

	got, err := repo.CustomHoliday.GetByDate(ctx, u.UserID, "2025-02-14")
	if err != nil || got.Name != "Valentine" {
		t.Errorf("GetByDate 期望 Valentine，实际=%v err=%v", got, err)
	}
}

// ── RateSettings ──

func TestRateSettingsRepo_GetOrCreateKeepsExisting(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "a@example.com")

	s, err := repo.RateSettings.GetOrCreate(ctx, &model.RateSettings{UserID: u.UserID, CompanyName: "WhatIEarn"})
	if err != nil {
		t.Fatalf("首次读取应成功: %v", err)
	}
	if len(s.Deductions) != 0 {
		t.Errorf("默认扣款应为空，实际=%v", s.Deductions)
	}

	s.NormalRate = decimal.NewFromInt(120)
	s.Deductions = model.DeductionList{{Name: "UIF", Amount: decimal.RequireFromString("12.50")}}
	if err := repo.RateSettings.Update(ctx, s); err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	again, err := repo.RateSettings.GetOrCreate(ctx, &model.RateSettings{UserID: u.UserID, CompanyName: "Other"})
	if err != nil {
		t.Fatalf("再次读取应成功: %v", err)
	}
	if again.CompanyName != "WhatIEarn" || !again.NormalRate.Equal(decimal.NewFromInt(120)) {
		t.Errorf("已有设置不应被默认值覆盖，实际=%+v", again)
	}
	if len(again.Deductions) != 1 || !again.Deductions[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("扣款应持久化，实际=%v", again.Deductions)
	}
}

// ── Transaction ──

func TestRepository_TransactionRollback(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	u := createUser(t, repo, "a@example.com")

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.CustomHoliday.Create(ctx, &model.CustomHoliday{UserID: u.UserID, Date: "2025-03-01", Name: "X"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望返回 boom，实际: %v", err)
	}

	if _, err := repo.CustomHoliday.GetByDate(ctx, u.UserID, "2025-03-01"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("事务回滚后不应存在记录，实际: %v", err)
	}
}
