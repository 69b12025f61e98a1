package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AJ4200/whatiearn/internal/app"
	"github.com/AJ4200/whatiearn/internal/payroll"
)

var calendarEmail string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Inspect day classification and public holidays",
}

var calendarDayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Classify a date as normal, sunday or holiday",
	Long: `Classify a date. With --email the account's custom holidays and rates are included.

Examples:
  whatiearn calendar day 2026-03-21
  whatiearn calendar day 2026-11-02 --email thandi@example.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		var date string
		if len(args) == 1 {
			date = args[0]
		}

		if calendarEmail != "" {
			user, err := a.Repo.User.GetByEmail(cmd.Context(), calendarEmail)
			if err != nil {
				return fmt.Errorf("查询用户 %s 失败: %w", calendarEmail, err)
			}
			info, err := a.Service.Calendar.DayInfo(cmd.Context(), user.UserID, date)
			if err != nil {
				return err
			}
			cmd.Printf("%s  %-8s rate=%.2f %s\n", info.Date, info.WorkType, info.Rate, info.HolidayName)
			return nil
		}

		day := a.Payroll.Today()
		if date != "" {
			d, err := payroll.ParseDate(date)
			if err != nil {
				return err
			}
			day = d
		}
		info, err := a.Payroll.Classifier.Classify(cmd.Context(), day, payroll.HolidaySet{})
		if err != nil {
			return err
		}
		cmd.Printf("%s  %-8s %s\n", info.Date, info.WorkType, info.HolidayName)
		return nil
	}),
}

var calendarHolidaysCmd = &cobra.Command{
	Use:   "holidays [year]",
	Short: "List configured public holidays",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		table := a.Payroll.Classifier.Table()

		years := table.Years()
		if len(args) == 1 {
			y, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("无效年份 %q", args[0])
			}
			years = []int{y}
		}

		for _, y := range years {
			list := table[y]
			if len(list) == 0 {
				cmd.Printf("%d: 未配置公共假日\n", y)
				continue
			}
			for _, h := range list {
				cmd.Printf("%s  %s\n", h.Date, h.Name)
			}
		}
		return nil
	}),
}

func init() {
	calendarDayCmd.Flags().StringVar(&calendarEmail, "email", "", "按该用户的自定义节假日与时薪判定")
	calendarCmd.AddCommand(calendarDayCmd, calendarHolidaysCmd)
}
