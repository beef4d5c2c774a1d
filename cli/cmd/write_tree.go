package cmd

import (
	"fmt"

	"github.com/tinygit/tinygit"
	"github.com/spf13/cobra"
)

var writeTreeCmd = &cobra.Command{
	Use:   "write-tree",
	Short: "Write the current directory as a tree object",
	Long: `Recursively store the current directory as a tree object, skipping
".git", and print the resulting root tree id.

Examples:
  tinygit write-tree`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gitDir, err := tinygit.FindGitDir(".")
		if err != nil {
			return err
		}
		store := tinygit.NewStore(gitDir)

		id, err := tinygit.WriteTree(store, ".")
		if err != nil {
			return fmt.Errorf("writing tree: %w", err)
		}

		fmt.Println(id.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeTreeCmd)
}
