package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/natter-io/natter/internal/app"
	"github.com/natter-io/natter/internal/logging"
)

var (
	// Version information (set by goreleaser)
	version = "dev"
	commit  = "none"
	date    = "unknown"

	serverURL  string
	configPath string
	profile    string
	readOnly   bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "natter",
	Short: "Terminal chat client for NATS",
	Long:  `A terminal chat client with channels, presence and history, backed by NATS JetStream`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(app.Options{
			ServerURL:  serverURL,
			ConfigPath: configPath,
			Profile:    profile,
			ReadOnly:   readOnly,
			LogLevel:   logLevel,
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("natter version %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&serverURL, "server", "s", "", "NATS server URL (overrides config file)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.Flags().StringVarP(&profile, "profile", "p", "", "Profile to connect with")
	rootCmd.Flags().BoolVarP(&readOnly, "read-only", "r", false, "Read-only mode (no sending or channel changes)")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", logging.LevelInfo,
		fmt.Sprintf("Log level (%s)", strings.Join(logging.ValidLevels(), ", ")))

	rootCmd.AddCommand(versionCmd)
}

func main() {
	// A .env in the working directory can carry NATTER_USER or token
	// variables referenced from the config file.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
