package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/spf13/cobra"

	"github.com/AJ4200/whatiearn/internal/app"
	"github.com/AJ4200/whatiearn/internal/dto"
	"github.com/AJ4200/whatiearn/internal/payroll"
	"github.com/AJ4200/whatiearn/internal/service"
)

var seedOpts struct {
	Email    string
	Password string
	Days     int
	Seed     int64
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a demo account with clock history",
	Long: `Generate a demo account with rates, deductions, a custom holiday and
completed work records for the past N days. Records go through the same
manual-entry path as the calendar UI, so they are classified and valued normally.

Examples:
  whatiearn seed --days 90
  whatiearn seed --email demo@example.com --seed 42`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
		if seedOpts.Seed == 0 {
			seedOpts.Seed = time.Now().UnixNano()
		}
		gofakeit.Seed(seedOpts.Seed)

		ctx := cmd.Context()
		name := gofakeit.Name()
		email := seedOpts.Email
		if email == "" {
			email = gofakeit.Email()
		}

		// 1. 账号（已存在则复用）
		userID, err := seedUser(cmd, a, name, email)
		if err != nil {
			return err
		}

		// 2. 时薪与工资单信息
		normal := float64(gofakeit.Number(80, 250))
		sunday, holiday := normal*1.5, normal*2
		company := gofakeit.Company()
		employeeID := fmt.Sprintf("EMP-%04d", gofakeit.Number(1, 9999))
		deductions := []dto.DeductionItem{
			{Name: "UIF", Amount: float64(gofakeit.Number(100, 180))},
			{Name: "Medical Aid", Amount: float64(gofakeit.Number(800, 2500))},
		}
		if _, err := a.Service.Settings.Update(ctx, userID, &dto.UpdateSettingsRequest{
			NormalRate:   &normal,
			SundayRate:   &sunday,
			HolidayRate:  &holiday,
			Deductions:   &deductions,
			EmployeeName: &name,
			EmployeeID:   &employeeID,
			CompanyName:  &company,
		}); err != nil {
			return err
		}

		// 3. 历史工时：周六多数休息，其余日期随机缺勤
		today := a.Payroll.Today()
		created := 0
		for i := seedOpts.Days; i >= 1; i-- {
			day := today.AddDate(0, 0, -i)
			if day.Weekday() == time.Saturday && gofakeit.Number(1, 10) > 2 {
				continue
			}
			if gofakeit.Number(1, 10) == 1 {
				continue
			}

			// 半小时粒度，4 - 11 小时
			hours := float64(gofakeit.Number(8, 22)) / 2
			if _, err := a.Service.WorkRecord.ManualEntry(ctx, userID, &dto.ManualEntryRequest{
				Date:  payroll.DateKey(day),
				Hours: hours,
			}); err != nil {
				return fmt.Errorf("生成 %s 的记录失败: %w", payroll.DateKey(day), err)
			}
			created++
		}

		// 4. 一个自定义节假日
		holidayDate := payroll.DateKey(today.AddDate(0, 0, -gofakeit.Number(1, max(seedOpts.Days, 1))))
		if _, err := a.Service.Holiday.Create(ctx, userID, &dto.CreateHolidayRequest{
			Date: holidayDate,
			Name: company + " Day",
		}); err != nil && !errors.Is(err, service.ErrHolidayExists) {
			return err
		}

		cmd.Printf("演示账号: %s <%s> 密码: %s\n", name, email, seedOpts.Password)
		cmd.Printf("已生成 %d 条工作记录，自定义节假日 %s，seed=%d\n", created, holidayDate, seedOpts.Seed)
		return nil
	}),
}

func seedUser(cmd *cobra.Command, a *app.App, name, email string) (string, error) {
	u, err := a.Service.Auth.CreateUser(cmd.Context(), &dto.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: seedOpts.Password,
	})
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, service.ErrEmailTaken) {
		return "", err
	}

	existing, err := a.Repo.User.GetByEmail(cmd.Context(), email)
	if err != nil {
		return "", err
	}
	cmd.Printf("用户 %s 已存在，追加演示数据\n", email)
	return existing.UserID, nil
}

func init() {
	seedCmd.Flags().StringVar(&seedOpts.Email, "email", "", "演示账号邮箱（默认随机生成）")
	seedCmd.Flags().StringVar(&seedOpts.Password, "password", "password123", "演示账号密码")
	seedCmd.Flags().IntVarP(&seedOpts.Days, "days", "d", 60, "生成最近多少天的记录")
	seedCmd.Flags().Int64Var(&seedOpts.Seed, "seed", 0, "随机种子（0 为按时间）")
}
