package cmd

import (
	"fmt"

	"github.com/tinygit/tinygit"
	"github.com/tinygit/tinygit/cli/internal/output"
	"github.com/tinygit/tinygit/protocol/hash"
	"github.com/spf13/cobra"
)

var lsTreeNameOnly bool

var lsTreeCmd = &cobra.Command{
	Use:   "ls-tree --name-only <tree-id>",
	Short: "List a tree object's entries",
	Long: `List the entries of a stored tree object, sorted ascending by name.

Examples:
  tinygit ls-tree --name-only 4b825dc642cb6eb9a060e54bf8d69288fbee4904
  tinygit ls-tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := hash.FromHex(args[0])
		if err != nil {
			return fmt.Errorf("parsing tree id %q: %w", args[0], err)
		}

		gitDir, err := tinygit.FindGitDir(".")
		if err != nil {
			return err
		}
		store := tinygit.NewStore(gitDir)

		_, payload, err := store.Get(id)
		if err != nil {
			return fmt.Errorf("reading tree %s: %w", args[0], err)
		}

		entries, err := tinygit.DecodeTree(payload)
		if err != nil {
			return fmt.Errorf("decoding tree %s: %w", args[0], err)
		}

		if lsTreeNameOnly && getOutputFormat() != "json" {
			for _, e := range entries {
				fmt.Println(e.Name)
			}
			return nil
		}

		return output.Get(getOutputFormat()).FormatTreeEntries(entries)
	},
}

func init() {
	lsTreeCmd.Flags().BoolVar(&lsTreeNameOnly, "name-only", false, "Print only entry names")
	rootCmd.AddCommand(lsTreeCmd)
}
