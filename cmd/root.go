package cmd

import (
	"bizdiag_backend/internal/app"
	"bizdiag_backend/internal/config"
	"bizdiag_backend/pkg/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bizdiag",
	Short: "Business diagnostic scoring and recommendation API",
	Long:  "Serves the diagnostic API: sessions, scoring, maturity classification and improvement plans.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		application := app.NewApp(cfg)
		defer logger.Sync()
		application.Run()
		return nil
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs", "Directory containing config.yaml")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir, _ := cmd.Flags().GetString("config")
	return config.LoadConfig(dir)
}
