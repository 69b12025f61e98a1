// Package commands whatiearn 管理命令行
package commands

import (
	"github.com/spf13/cobra"

	"github.com/AJ4200/whatiearn/internal/app"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "whatiearn",
	Short: "Time tracking and payroll administration",
	Long: `whatiearn 管理命令：数据库迁移、账号管理、发薪周期与日历查询、演示数据生成。
配置读取顺序与 HTTP 服务一致：环境变量 (WIE_*) > 配置文件 > 默认值。`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("whatiearn %s (commit %s, built %s)\n", version, commit, date)
	},
}

// withApp 初始化应用依赖后执行命令，结束时释放连接
func withApp(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := app.New(app.Options{ConfigPath: configPath})
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

// SetVersion 设置版本信息
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute 执行根命令
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(payPeriodCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}
