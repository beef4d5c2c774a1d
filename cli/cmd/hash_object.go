package cmd

import (
	"fmt"
	"os"

	"github.com/tinygit/tinygit"
	"github.com/tinygit/tinygit/protocol/object"
	"github.com/spf13/cobra"
)

var hashObjectWrite bool

var hashObjectCmd = &cobra.Command{
	Use:   "hash-object <file>",
	Short: "Compute the object id of a file, optionally storing it",
	Long: `Compute the blob id a file's contents would have as a Git object.

Without -w, the id is printed and the object store is left untouched. With
-w, the blob is also written into the repository's object store.

Examples:
  tinygit hash-object README.md
  tinygit hash-object -w README.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		if !hashObjectWrite {
			id, err := tinygit.HashObject(data)
			if err != nil {
				return fmt.Errorf("hashing %s: %w", args[0], err)
			}
			fmt.Println(id.String())
			return nil
		}

		gitDir, err := tinygit.FindGitDir(".")
		if err != nil {
			return err
		}
		store := tinygit.NewStore(gitDir)
		id, err := store.Put(object.TypeBlob, data)
		if err != nil {
			return fmt.Errorf("storing %s: %w", args[0], err)
		}
		fmt.Println(id.String())
		return nil
	},
}

func init() {
	hashObjectCmd.Flags().BoolVarP(&hashObjectWrite, "write", "w", false, "Write the object into the repository")
	rootCmd.AddCommand(hashObjectCmd)
}
