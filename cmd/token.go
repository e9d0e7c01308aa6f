package cmd

import (
	"bizdiag_backend/internal/util"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// tokenCmd mints a bearer token with the configured secret so the API can be
// called locally without the identity provider.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed bearer token for a user id",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		userID, _ := cmd.Flags().GetUint("user")
		if userID == 0 {
			return errors.New("--user is required")
		}
		email, _ := cmd.Flags().GetString("email")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := util.GenerateJWT(userID, email, cfg.JWT.Secret, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Uint("user", 0, "User id to put in the token")
	tokenCmd.Flags().String("email", "", "Optional email claim")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
}
