package cmd

import (
	"fmt"

	"github.com/tinygit/tinygit"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create an empty repository",
	Long: `Create an empty repository: a ".git" directory with an object store,
a "refs/heads" directory, a HEAD pointing at "refs/heads/main", and a default
config.

Examples:
  tinygit init
  tinygit init path/to/repo`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		if err := tinygit.Init(dir); err != nil {
			return fmt.Errorf("initializing repository: %w", err)
		}

		fmt.Printf("Initialized empty tinygit repository in %s/.git\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
