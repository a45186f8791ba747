package video

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// TrackInfo is the subset of yt-dlp's info json used to tag audio uploads.
type TrackInfo struct {
	Title    string `json:"title"`
	Uploader string `json:"uploader"`
}

// ReadTrackInfo loads the info json yt-dlp leaves next to an audio download.
// Returns nil when the directory holds none.
func ReadTrackInfo(dir string) *TrackInfo {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".info.json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var info TrackInfo
		if err := json.Unmarshal(data, &info); err != nil {
			continue
		}
		return &info
	}
	return nil
}
