package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/nfrund/insightboard/internal/analysis"
	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenRole    string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the analysis function",
	Long: `Issue an HS256 bearer token signed with ANALYSIS_JWT_SECRET.

Example:
  insightctl token --subject user:alice --ttl 1h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		secret := os.Getenv("ANALYSIS_JWT_SECRET")
		if secret == "" {
			return errors.New("ANALYSIS_JWT_SECRET is not set")
		}
		token, err := analysis.NewTokenVerifier(secret).Issue(tokenSubject, tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "token subject, usually a user record id")
	tokenCmd.Flags().StringVar(&tokenRole, "role", "service", "role claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}
