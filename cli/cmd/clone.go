package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/tinygit/tinygit"
	"github.com/tinygit/tinygit/cli/internal/auth"
	"github.com/tinygit/tinygit/cli/internal/output"
	"github.com/spf13/cobra"
)

var (
	cloneIncludePaths []string
	cloneExcludePaths []string
)

var cloneCmd = &cobra.Command{
	Use:   "clone <url> <destination>",
	Short: "Clone a repository over Git's smart-HTTP protocol",
	Long: `Clone a repository to the local filesystem: discover the remote's HEAD,
fetch and ingest its packfile, and check out the resulting working tree.

Examples:
  # Basic clone
  tinygit clone https://github.com/example/repo /tmp/repo

  # Clone with path filtering
  tinygit clone https://github.com/example/repo /tmp/repo \
    --include-paths "src/**,docs/**" \
    --exclude-paths "**/*.test.go"

  # JSON output
  tinygit clone https://github.com/example/repo /tmp/repo --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		destination := args[1]

		authConfig := auth.FromEnvironment()
		authConfig.Merge(token, username, password)

		if getOutputFormat() != "json" {
			fmt.Printf("Cloning %s...\n", url)
		}

		var includePaths, excludePaths []string
		for _, paths := range cloneIncludePaths {
			includePaths = append(includePaths, strings.Split(paths, ",")...)
		}
		for _, paths := range cloneExcludePaths {
			excludePaths = append(excludePaths, strings.Split(paths, ",")...)
		}

		ctx := context.Background()
		err := tinygit.Clone(ctx, url, destination, tinygit.CloneOptions{
			Checkout: tinygit.CheckoutOptions{
				IncludePaths: includePaths,
				ExcludePaths: excludePaths,
			},
			Transport: authConfig.ToOptions(),
		})
		if err != nil {
			return fmt.Errorf("cloning repository: %w", err)
		}

		gitDir, err := tinygit.FindGitDir(destination)
		if err != nil {
			return err
		}
		head, err := tinygit.ResolveHEAD(gitDir)
		if err != nil {
			return fmt.Errorf("resolving cloned HEAD: %w", err)
		}

		return output.Get(getOutputFormat()).FormatCloneResult(destination, head.String())
	},
}

func init() {
	cloneCmd.Flags().StringSliceVar(&cloneIncludePaths, "include-paths", nil, "Glob patterns to include (comma-separated)")
	cloneCmd.Flags().StringSliceVar(&cloneExcludePaths, "exclude-paths", nil, "Glob patterns to exclude (comma-separated)")
	rootCmd.AddCommand(cloneCmd)
}
