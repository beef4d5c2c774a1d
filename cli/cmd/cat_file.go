package cmd

import (
	"fmt"
	"os"

	"github.com/tinygit/tinygit"
	"github.com/tinygit/tinygit/cli/internal/output"
	"github.com/tinygit/tinygit/protocol/hash"
	"github.com/spf13/cobra"
)

var catFileShowSize bool

var catFileCmd = &cobra.Command{
	Use:   "cat-file -p <id>",
	Short: "Print a stored object's payload",
	Long: `Print the payload of a stored object to stdout, byte for byte, with no
trailing newline added.

Examples:
  tinygit cat-file -p b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0
  tinygit cat-file -p b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0 --show-size`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := hash.FromHex(args[0])
		if err != nil {
			return fmt.Errorf("parsing object id %q: %w", args[0], err)
		}

		gitDir, err := tinygit.FindGitDir(".")
		if err != nil {
			return err
		}
		store := tinygit.NewStore(gitDir)

		_, payload, err := store.Get(id)
		if err != nil {
			return fmt.Errorf("reading object %s: %w", args[0], err)
		}

		if catFileShowSize {
			fmt.Println(len(payload))
			return nil
		}

		if getOutputFormat() == "json" {
			return output.Get("json").FormatBlobContent(args[0], payload)
		}

		_, err = os.Stdout.Write(payload)
		return err
	},
}

func init() {
	catFileCmd.Flags().BoolP("print", "p", true, "Print the object payload (default)")
	catFileCmd.Flags().BoolVar(&catFileShowSize, "show-size", false, "Print the object's payload size instead of its payload")
	rootCmd.AddCommand(catFileCmd)
}
