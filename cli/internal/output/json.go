package output

import (
	"encoding/base64"
	"encoding/json"
	"os"

	"github.com/tinygit/tinygit"
)

// JSONFormatter outputs in JSON format
type JSONFormatter struct {
	encoder *json.Encoder
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return &JSONFormatter{
		encoder: enc,
	}
}

// treeEntryOutput represents a tree entry for JSON output
type treeEntryOutput struct {
	Mode string `json:"mode"`
	Hash string `json:"hash"`
	Name string `json:"name"`
}

// FormatTreeEntries outputs tree entries in JSON format
func (f *JSONFormatter) FormatTreeEntries(entries []tinygit.TreeEntry) error {
	out := make([]treeEntryOutput, len(entries))
	for i, e := range entries {
		out[i] = treeEntryOutput{
			Mode: e.Mode,
			Hash: e.Hash.String(),
			Name: e.Name,
		}
	}
	return f.encoder.Encode(map[string]interface{}{
		"entries": out,
	})
}

// blobOutput represents an object's payload for JSON output. Content is
// base64-encoded since a blob's payload is arbitrary bytes, not necessarily
// valid UTF-8 (spec.md §8 scenario 6: NUL bytes must round-trip exactly).
type blobOutput struct {
	ID      string `json:"id"`
	Size    int    `json:"size"`
	Content string `json:"content_base64"`
}

// FormatBlobContent outputs an object's payload in JSON format
func (f *JSONFormatter) FormatBlobContent(id string, payload []byte) error {
	out := blobOutput{
		ID:      id,
		Size:    len(payload),
		Content: base64.StdEncoding.EncodeToString(payload),
	}
	return f.encoder.Encode(out)
}

// cloneResultOutput represents a clone result for JSON output
type cloneResultOutput struct {
	Dir  string `json:"dir"`
	Head string `json:"head"`
}

// FormatCloneResult outputs a clone result in JSON format
func (f *JSONFormatter) FormatCloneResult(dir, headID string) error {
	return f.encoder.Encode(cloneResultOutput{Dir: dir, Head: headID})
}
