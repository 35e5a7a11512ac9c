package cmd

import (
	"fmt"

	"github.com/gatherly/server/internal/auth"
	"github.com/spf13/cobra"
)

var (
	gentokenUserID string
	gentokenRoles  []string
)

// gentokenCmd mints a bearer token for local development and manual API
// testing. It never touches the database; the subject is taken as-is.
var gentokenCmd = &cobra.Command{
	Use:   "gentoken",
	Short: "Generate a development bearer token",
	Long: `Generate a signed bearer token using the configured JWT secret.

Examples:
  server gentoken --user 01J0000000000000000000000A --role ROLE_ADMIN
  server gentoken --user 01J0000000000000000000000B --role ROLE_USER --role ROLE_ORGANIZER`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}

		roles, ok := auth.ParseRoleSet(gentokenRoles)
		if !ok {
			return fmt.Errorf("invalid role in %v", gentokenRoles)
		}

		manager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)
		token, err := manager.Generate(gentokenUserID, roles)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	gentokenCmd.Flags().StringVar(&gentokenUserID, "user", "", "user id to embed as the token subject")
	gentokenCmd.Flags().StringSliceVar(&gentokenRoles, "role", []string{string(auth.RoleUser)}, "role to embed (repeatable)")
	_ = gentokenCmd.MarkFlagRequired("user")
}
