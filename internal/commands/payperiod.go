package commands

import (
	"github.com/spf13/cobra"

	"github.com/AJ4200/whatiearn/internal/app"
	"github.com/AJ4200/whatiearn/internal/dto"
)

var payPeriodOpts struct {
	Offset int
	Count  int
}

var payPeriodCmd = &cobra.Command{
	Use:   "payperiod [date]",
	Short: "Show the pay period containing a date",
	Long: `Show the pay period (default: 21st to 20th) containing the given date, or today.

Examples:
  whatiearn payperiod                       # current period
  whatiearn payperiod 2026-12-25            # period containing Christmas
  whatiearn payperiod --offset -2 --count 3 # three periods starting two back`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		var day string
		if len(args) == 1 {
			day = args[0]
		}
		count := max(payPeriodOpts.Count, 1)

		for i := 0; i < count; i++ {
			p, err := a.Service.Calendar.PayPeriod(cmd.Context(), &dto.PayPeriodRequest{
				Date:   day,
				Offset: payPeriodOpts.Offset + i,
			})
			if err != nil {
				return err
			}
			cmd.Printf("%-28s %s → %s\n", p.Label, p.Start, p.End)
		}
		return nil
	}),
}

func init() {
	payPeriodCmd.Flags().IntVarP(&payPeriodOpts.Offset, "offset", "o", 0, "相对偏移（-1 为上一周期）")
	payPeriodCmd.Flags().IntVarP(&payPeriodOpts.Count, "count", "n", 1, "连续显示的周期数")
}
