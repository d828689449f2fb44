package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pairtalk/pairtalk/internal/auth/jwt"
	"github.com/pairtalk/pairtalk/pkg/version"
	"github.com/spf13/cobra"
)

var (
	secretKey string
	username  string
	ttl       time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "pairtalk-token",
	Short: "Mint and inspect PairTalk chat credentials",
	Long:  `pairtalk-token mints signed JWT credentials accepted by the relay, and inspects existing ones.`,
}

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a credential for a username",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		if username == "" {
			return fmt.Errorf("--user is required")
		}
		token, err := svc.GenerateToken(username)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <token>",
	Short: "Validate a credential and print its identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		claims, err := svc.ValidateToken(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("username: %s\nexpires:  %s\n", claims.Username, claims.ExpiresAt.Time.Format(time.RFC3339))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pairtalk-token",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pairtalk-token version %s\n", version.Get())
	},
}

func newService() (*jwt.Service, error) {
	key := secretKey
	if key == "" {
		key = os.Getenv("PAIRTALK_JWT_SECRET")
	}
	return jwt.NewService(jwt.Config{SecretKey: key, Duration: ttl})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&secretKey, "secret", "", "JWT secret key (defaults to PAIRTALK_JWT_SECRET)")
	rootCmd.PersistentFlags().DurationVar(&ttl, "ttl", 24*time.Hour, "credential lifetime")
	mintCmd.Flags().StringVar(&username, "user", "", "username to mint the credential for")
	rootCmd.AddCommand(mintCmd, inspectCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
