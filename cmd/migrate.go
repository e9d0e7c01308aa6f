package cmd

import (
	"bizdiag_backend/internal/app"
	"bizdiag_backend/pkg/logger"
	"log"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and seeds, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg.MigrateOnly = true

		app.NewApp(cfg)
		defer logger.Sync()
		log.Println("Database migration finished")
		return nil
	},
}
