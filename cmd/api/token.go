package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hirehub-api/config"
	"hirehub-api/middleware"
	"hirehub-api/models"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed access token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		rawRole, _ := cmd.Flags().GetString("role")
		ttl, _ := cmd.Flags().GetDuration("ttl")

		if strings.TrimSpace(userID) == "" {
			return errors.New("--user is required")
		}

		role := models.Role(strings.ToUpper(strings.TrimSpace(rawRole)))
		if role != models.RoleStudent && role != models.RoleRecruiter {
			return fmt.Errorf("unknown role %q", rawRole)
		}

		token, err := middleware.IssueToken(config.Load().JWTSecret, userID, role, ttl)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("user", "", "user id to put in the token")
	tokenCmd.Flags().String("role", string(models.RoleStudent), "STUDENT or RECRUITER")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")

	rootCmd.AddCommand(tokenCmd)
}
