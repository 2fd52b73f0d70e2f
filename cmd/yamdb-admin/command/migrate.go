package command

import (
	"github.com/spf13/cobra"

	"yamdb/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		return database.Migrate(e.cfg, e.logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
