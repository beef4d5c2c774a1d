package cmd

import (
	"fmt"
	"time"

	"github.com/tinygit/tinygit"
	"github.com/tinygit/tinygit/protocol/hash"
	"github.com/tinygit/tinygit/protocol/object"
	"github.com/spf13/cobra"
)

var (
	commitTreeParent  string
	commitTreeMessage string
)

var commitTreeCmd = &cobra.Command{
	Use:   "commit-tree <tree-id> -p <parent> -m <message>",
	Short: "Create a commit object from a tree",
	Long: `Create a commit object pointing at tree-id, with an optional single
parent, and print the resulting commit id. Author and committer identity are
read from TINYGIT_AUTHOR_NAME / TINYGIT_AUTHOR_EMAIL, falling back to a fixed
literal when unset.

Examples:
  tinygit commit-tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904 -m "initial"
  tinygit commit-tree <tree-id> -p <parent-id> -m "second commit"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		treeID, err := hash.FromHex(args[0])
		if err != nil {
			return fmt.Errorf("parsing tree id %q: %w", args[0], err)
		}

		var parentID hash.Hash
		if commitTreeParent != "" {
			parentID, err = hash.FromHex(commitTreeParent)
			if err != nil {
				return fmt.Errorf("parsing parent id %q: %w", commitTreeParent, err)
			}
		}

		gitDir, err := tinygit.FindGitDir(".")
		if err != nil {
			return err
		}
		store := tinygit.NewStore(gitDir)

		payload := tinygit.BuildCommit(treeID, parentID, commitTreeMessage, time.Now())
		id, err := store.Put(object.TypeCommit, payload)
		if err != nil {
			return fmt.Errorf("storing commit: %w", err)
		}

		fmt.Println(id.String())
		return nil
	},
}

func init() {
	commitTreeCmd.Flags().StringVarP(&commitTreeParent, "parent", "p", "", "Parent commit id")
	commitTreeCmd.Flags().StringVarP(&commitTreeMessage, "message", "m", "", "Commit message")
	rootCmd.AddCommand(commitTreeCmd)
}
