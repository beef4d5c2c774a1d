package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	token    string
	username string
	password string
	jsonOut  bool
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:   "tinygit",
	Short: "A minimal Git client built on a from-scratch object store",
	Long: `tinygit implements the core Git plumbing commands - init, hash-object,
cat-file, ls-tree, write-tree, commit-tree - against a local .git directory,
plus a clone command that speaks Git's smart-HTTP v2 protocol directly.

Authentication for clone can be provided via flags or environment variables:
  - TINYGIT_TOKEN: General token for any provider
  - GITHUB_TOKEN:  GitHub-specific token
  - GITLAB_TOKEN:  GitLab-specific token
  - TINYGIT_USERNAME + TINYGIT_PASSWORD: Basic auth`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Authentication token")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "Username for basic auth")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Password for basic auth")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	// Set up persistent pre-run to configure logging
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if debug {
			if err := os.Setenv("TINYGIT_LOG_LEVEL", "debug"); err != nil {
				return fmt.Errorf("failed to set debug log level: %w", err)
			}
		}
		return nil
	}
}

// getOutputFormat returns "json" if json flag is set, otherwise "human"
func getOutputFormat() string {
	if jsonOut {
		return "json"
	}
	return "human"
}
