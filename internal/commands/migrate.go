package commands

import (
	"github.com/spf13/cobra"

	"github.com/AJ4200/whatiearn/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app.App) error {
		if err := a.Migrate(); err != nil {
			return err
		}
		cmd.Printf("数据库迁移完成 (%s)\n", a.Config.Database.Driver)
		return nil
	}),
}
