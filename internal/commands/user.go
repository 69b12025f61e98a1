package commands

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AJ4200/whatiearn/internal/app"
	"github.com/AJ4200/whatiearn/internal/dto"
)

var userOpts struct {
	Name     string
	Email    string
	Password string
	Page     int
	PageSize int
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account without signing in",
	Long: `Create an account.

Examples:
  whatiearn user create --name "Thandi M" --email thandi@example.com --password s3cretpass`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
		u, err := a.Service.Auth.CreateUser(cmd.Context(), &dto.RegisterRequest{
			Name:     userOpts.Name,
			Email:    userOpts.Email,
			Password: userOpts.Password,
		})
		if err != nil {
			return err
		}
		cmd.Printf("已创建用户 %s <%s> id=%s\n", u.Name, u.Email, u.ID)
		return nil
	}),
}

var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Reset an account password",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
		if err := a.Service.Auth.ResetPassword(cmd.Context(), userOpts.Email, userOpts.Password); err != nil {
			return err
		}
		cmd.Printf("已重置 %s 的密码\n", userOpts.Email)
		return nil
	}),
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
		users, total, err := a.Service.Auth.ListUsers(cmd.Context(), userOpts.Page, userOpts.PageSize)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		cmd.Printf("共 %d 个用户\n", total)
		tw.Write([]byte("ID\tNAME\tEMAIL\tCREATED\n"))
		for _, u := range users {
			tw.Write([]byte(u.ID + "\t" + u.Name + "\t" + u.Email + "\t" + u.CreatedAt + "\n"))
		}
		return tw.Flush()
	}),
}

func init() {
	userCreateCmd.Flags().StringVar(&userOpts.Name, "name", "", "显示名称")
	userCreateCmd.Flags().StringVar(&userOpts.Email, "email", "", "登录邮箱")
	userCreateCmd.Flags().StringVar(&userOpts.Password, "password", "", "登录密码（8-72 位）")
	for _, f := range []string{"name", "email", "password"} {
		_ = userCreateCmd.MarkFlagRequired(f)
	}

	userPasswdCmd.Flags().StringVar(&userOpts.Email, "email", "", "登录邮箱")
	userPasswdCmd.Flags().StringVar(&userOpts.Password, "password", "", "新密码（8-72 位）")
	_ = userPasswdCmd.MarkFlagRequired("email")
	_ = userPasswdCmd.MarkFlagRequired("password")

	userListCmd.Flags().IntVar(&userOpts.Page, "page", 1, "页码")
	userListCmd.Flags().IntVar(&userOpts.PageSize, "page-size", 20, "每页数量")

	userCmd.AddCommand(userCreateCmd, userPasswdCmd, userListCmd)
}
