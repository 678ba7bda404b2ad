package cli

import (
	"errors"
	"fmt"

	"github.com/arnavshah/restbook-api-go/pkg/auth"
	"github.com/arnavshah/restbook-api-go/pkg/config"
	"github.com/spf13/cobra"
)

// NewKeygenCmd prints an API key signed with API_MASTER_SECRET.
func NewKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen <userID>",
		Short: "Generate an API key for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.APIMasterSecret == "" {
				return errors.New("API_MASTER_SECRET not found in the environment or .env")
			}

			userID := args[0]
			key := auth.New(cfg.JWTSecret, cfg.APIMasterSecret).GenerateHMACKey(userID)
			fmt.Fprintf(cmd.OutOrStdout(), "Generated Key for %s:\n%s\n", userID, key)
			return nil
		},
	}
}
