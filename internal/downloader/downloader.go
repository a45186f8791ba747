package downloader

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dreamcatchered/dreamDownloader/internal/models"
)

// File is one media file produced by a download.
type File struct {
	Path      string
	Size      int64
	MediaType models.MediaType
}

// Result is what a downloader hands back: the files it collected inside the
// task directory and the best title it could determine.
type Result struct {
	Title string
	Files []File
}

func (r *Result) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// Largest returns the biggest file of the result, or nil when empty.
func (r *Result) Largest() *File {
	if len(r.Files) == 0 {
		return nil
	}
	largest := &r.Files[0]
	for i := range r.Files {
		if r.Files[i].Size > largest.Size {
			largest = &r.Files[i]
		}
	}
	return largest
}

type Downloader interface {
	Platform() string
	ContentType() models.MediaType
	Download(ctx context.Context, destDir string) (*Result, error)
}

const (
	// MinValidFileSize filters out error pages and thumbnail stubs that
	// extractors sometimes leave behind.
	MinValidFileSize int64 = 10 * 1024
	// MinSalvageFileSize is the threshold for keeping partial output after a
	// timed-out download.
	MinSalvageFileSize int64 = 100 * 1024
)

var photoExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".heic": true, ".gif": true,
}

var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".aac": true, ".flac": true, ".wav": true, ".ogg": true, ".opus": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".webm": true, ".mkv": true, ".mov": true, ".avi": true, ".ts": true,
}

var tempSuffixes = []string{".part", ".ytdl", ".ytdlp", ".tmp", ".temp"}

// IsTempArtifact reports whether the file is a downloader work file that must
// never be treated as media.
func IsTempArtifact(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range tempSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// MediaTypeFromPath classifies a file by extension. Unknown extensions come
// back as an empty media type so callers can skip them.
func MediaTypeFromPath(path string) models.MediaType {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case photoExtensions[ext]:
		return models.MediaTypePhoto
	case audioExtensions[ext]:
		return models.MediaTypeAudio
	case videoExtensions[ext]:
		return models.MediaTypeVideo
	default:
		return ""
	}
}

// CollectFiles gathers the media files under dir that pass the size floor,
// skipping temp artifacts and unknown extensions. Files come back sorted by
// path so carousel ordering is stable.
func CollectFiles(dir string, minSize int64) ([]File, error) {
	var files []File
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsTempArtifact(path) {
			return nil
		}
		mediaType := MediaTypeFromPath(path)
		if mediaType == "" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() < minSize {
			return nil
		}
		files = append(files, File{
			Path:      path,
			Size:      info.Size(),
			MediaType: mediaType,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
