package output

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/tinygit/tinygit"
)

// HumanFormatter outputs in human-readable format with colors
type HumanFormatter struct {
	success *color.Color
	info    *color.Color
	dim     *color.Color
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{
		success: color.New(color.FgGreen),
		info:    color.New(color.FgCyan),
		dim:     color.New(color.Faint),
	}
}

// FormatTreeEntries outputs tree entries in human-readable format
func (f *HumanFormatter) FormatTreeEntries(entries []tinygit.TreeEntry) error {
	for _, e := range entries {
		fmt.Printf("%s %s\t%s\n",
			f.dim.Sprint(e.Mode),
			f.info.Sprint(e.Hash.String()),
			e.Name)
	}
	return nil
}

// FormatBlobContent outputs an object's payload raw to stdout
func (f *HumanFormatter) FormatBlobContent(id string, payload []byte) error {
	_, err := os.Stdout.Write(payload)
	return err
}

// FormatCloneResult outputs clone results in human-readable format
func (f *HumanFormatter) FormatCloneResult(dir, headID string) error {
	f.success.Printf("✓ Cloned into %s\n", dir)
	fmt.Printf("  HEAD: %s\n", headID)
	return nil
}
