package downloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
)

func TestMain(m *testing.M) {
	if logutils.Log == nil {
		logutils.InitLogger("error")
	}
	os.Exit(m.Run())
}

func TestMediaTypeFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected models.MediaType
	}{
		{"video.mp4", models.MediaTypeVideo},
		{"clip.WebM", models.MediaTypeVideo},
		{"photo.jpg", models.MediaTypePhoto},
		{"photo.JPEG", models.MediaTypePhoto},
		{"track.mp3", models.MediaTypeAudio},
		{"voice.ogg", models.MediaTypeAudio},
		{"notes.txt", ""},
		{"archive.zip", ""},
		{"noextension", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := MediaTypeFromPath(tt.path); got != tt.expected {
				t.Errorf("MediaTypeFromPath(%s) = %q, expected %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestIsTempArtifact(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"video.mp4.part", true},
		{"video.mp4.ytdl", true},
		{"clip.tmp", true},
		{"video.mp4", false},
		{"partition.mp4", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsTempArtifact(tt.path); got != tt.expected {
				t.Errorf("IsTempArtifact(%s) = %v, expected %v", tt.path, got, tt.expected)
			}
		})
	}
}

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "02_second.jpg", 30*1024)
	writeFile(t, dir, "01_first.jpg", 20*1024)
	writeFile(t, dir, "video.mp4", 500*1024)
	writeFile(t, dir, "video.mp4.part", 400*1024)
	writeFile(t, dir, "tiny.jpg", 512)
	writeFile(t, dir, "info.json", 5*1024)

	files, err := CollectFiles(dir, 10*1024)
	if err != nil {
		t.Fatalf("CollectFiles failed: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("collected %d files, expected 3", len(files))
	}
	wantOrder := []string{"01_first.jpg", "02_second.jpg", "video.mp4"}
	for i, want := range wantOrder {
		if filepath.Base(files[i].Path) != want {
			t.Errorf("files[%d] = %s, expected %s", i, filepath.Base(files[i].Path), want)
		}
	}
	if files[0].MediaType != models.MediaTypePhoto {
		t.Errorf("files[0].MediaType = %q, expected photo", files[0].MediaType)
	}
	if files[2].Size != 500*1024 {
		t.Errorf("files[2].Size = %d, expected %d", files[2].Size, 500*1024)
	}
}

func TestCollectFilesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "gallery")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "nested.jpg", 40*1024)

	files, err := CollectFiles(dir, MinValidFileSize)
	if err != nil {
		t.Fatalf("CollectFiles failed: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0].Path) != "nested.jpg" {
		t.Errorf("files = %+v, expected the nested photo", files)
	}
}

func TestResultHelpers(t *testing.T) {
	result := &Result{Files: []File{
		{Path: "a.jpg", Size: 100},
		{Path: "b.mp4", Size: 900},
		{Path: "c.jpg", Size: 50},
	}}

	if got := result.TotalSize(); got != 1050 {
		t.Errorf("TotalSize = %d, expected 1050", got)
	}
	if largest := result.Largest(); largest == nil || largest.Path != "b.mp4" {
		t.Errorf("Largest = %+v, expected b.mp4", largest)
	}

	empty := &Result{}
	if empty.Largest() != nil {
		t.Error("Largest on empty result should be nil")
	}
}
