package handlers

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dreamcatchered/dreamDownloader/internal/downloader"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
)

func TestPickAudioWithCover(t *testing.T) {
	audio := downloader.File{Path: "/tmp/track.mp3", MediaType: models.MediaTypeAudio}
	cover := downloader.File{Path: "/tmp/cover.jpg", MediaType: models.MediaTypePhoto}
	video := downloader.File{Path: "/tmp/clip.mp4", MediaType: models.MediaTypeVideo}

	tests := []struct {
		name      string
		files     []downloader.File
		ok        bool
		coverPath string
	}{
		{"single audio", []downloader.File{audio}, true, ""},
		{"audio with cover", []downloader.File{audio, cover}, true, "/tmp/cover.jpg"},
		{"cover listed first", []downloader.File{cover, audio}, true, "/tmp/cover.jpg"},
		{"two audio tracks", []downloader.File{audio, audio}, false, ""},
		{"audio with video", []downloader.File{audio, video}, false, ""},
		{"photos only", []downloader.File{cover, cover}, false, ""},
		{"no files", nil, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, coverPath, ok := pickAudioWithCover(tt.files)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			if got == nil || got.Path != audio.Path {
				t.Errorf("picked wrong audio file: %+v", got)
			}
			if coverPath != tt.coverPath {
				t.Errorf("cover = %q, want %q", coverPath, tt.coverPath)
			}
		})
	}
}

func TestCachedGroupItems(t *testing.T) {
	tests := []struct {
		name      string
		mediaType models.MediaType
		itemType  models.MediaType
	}{
		{"video album", models.MediaTypeVideo, models.MediaTypeVideo},
		{"photo album", models.MediaTypePhoto, models.MediaTypePhoto},
		{"legacy carousel rows resend as photos", models.MediaTypeCarousel, models.MediaTypePhoto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cached := &models.CachedFile{
				MediaType: tt.mediaType,
				FileIDs:   []string{"id-one", "id-two"},
			}
			items := cachedGroupItems(cached)
			if len(items) != 2 {
				t.Fatalf("expected 2 items, got %d", len(items))
			}
			for i, item := range items {
				if item.MediaType != tt.itemType {
					t.Errorf("item %d type = %q, want %q", i, item.MediaType, tt.itemType)
				}
				if fileID, ok := item.Media.(tgbotapi.FileID); !ok || string(fileID) != cached.FileIDs[i] {
					t.Errorf("item %d media = %v, want file id %q", i, item.Media, cached.FileIDs[i])
				}
			}
		})
	}
}

// Group chats get no status message, so every method must tolerate nil.
func TestNilStatusMessageIsSafe(t *testing.T) {
	var status *statusMessage

	status.Edit("ignored")
	status.Delete()
	if fn := status.progressFunc(); fn != nil {
		t.Error("nil status must yield a nil progress callback")
	}
}
