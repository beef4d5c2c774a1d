package output

import "github.com/tinygit/tinygit"

// Formatter defines the interface for different output formats
type Formatter interface {
	// FormatTreeEntries outputs a tree object's entries
	FormatTreeEntries(entries []tinygit.TreeEntry) error

	// FormatBlobContent outputs an object's raw payload
	FormatBlobContent(id string, payload []byte) error

	// FormatCloneResult outputs a clone operation's result
	FormatCloneResult(dir, headID string) error
}

// Get returns the appropriate formatter based on format type
func Get(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	default:
		return NewHumanFormatter()
	}
}
