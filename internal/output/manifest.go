package output

import (
	"encoding/json"
	"os"
)

// ManifestEntry describes one written frame.
type ManifestEntry struct {
	Frame  int    `json:"frame"`
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format Format `json:"format"`
}

// WriteManifest writes entries as indented JSON to path.
func WriteManifest(path string, entries []ManifestEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
