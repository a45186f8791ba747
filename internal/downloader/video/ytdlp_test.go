package video

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/kkdai/youtube/v2"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
)

func argValue(args []string, flag string) (string, bool) {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func hasArg(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}

func TestYTDLPBuildArgs(t *testing.T) {
	destDir := filepath.Join("downloads", "task-1")

	tests := []struct {
		name        string
		contentType models.MediaType
		cookiesFile string
		proxyURL    string
		wantFormat  string
		wantCookies bool
		wantProxy   bool
		wantExtract bool
	}{
		{
			name:        "video without extras",
			contentType: models.MediaTypeVideo,
			wantFormat:  "best[height<=1080]/best",
		},
		{
			name:        "audio extraction",
			contentType: models.MediaTypeAudio,
			wantFormat:  "bestaudio/best",
			wantExtract: true,
		},
		{
			name:        "cookies and proxy",
			contentType: models.MediaTypeVideo,
			cookiesFile: "yt_cookies.txt",
			proxyURL:    "socks5://127.0.0.1:1080",
			wantFormat:  "best[height<=1080]/best",
			wantCookies: true,
			wantProxy:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ddconfig.Config{ProxyURL: tt.proxyURL}
			d := NewYTDLP("https://example.com/watch", tt.contentType, tt.cookiesFile, cfg, nil)
			args := d.buildArgs(destDir)

			if args[len(args)-1] != "https://example.com/watch" {
				t.Errorf("last arg = %q, expected the URL", args[len(args)-1])
			}
			if format, ok := argValue(args, "-f"); !ok || format != tt.wantFormat {
				t.Errorf("format = %q, expected %q", format, tt.wantFormat)
			}
			if output, ok := argValue(args, "-o"); !ok || !strings.HasPrefix(output, destDir) {
				t.Errorf("output template = %q, expected it inside %q", output, destDir)
			}
			if hasArg(args, "-x") != tt.wantExtract {
				t.Errorf("audio extraction flag present = %v, expected %v", hasArg(args, "-x"), tt.wantExtract)
			}
			cookies, hasCookies := argValue(args, "--cookies")
			if hasCookies != tt.wantCookies {
				t.Errorf("cookies flag present = %v, expected %v", hasCookies, tt.wantCookies)
			}
			if tt.wantCookies && cookies != tt.cookiesFile {
				t.Errorf("cookies file = %q, expected %q", cookies, tt.cookiesFile)
			}
			proxy, hasProxy := argValue(args, "--proxy")
			if hasProxy != tt.wantProxy {
				t.Errorf("proxy flag present = %v, expected %v", hasProxy, tt.wantProxy)
			}
			if tt.wantProxy && proxy != tt.proxyURL {
				t.Errorf("proxy = %q, expected %q", proxy, tt.proxyURL)
			}
			if !hasArg(args, "--no-playlist") {
				t.Error("expected --no-playlist to always be set")
			}
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
		wantErr  bool
	}{
		{
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			url:      "https://youtu.be/dQw4w9WgXcQ?t=10",
			expected: "dQw4w9WgXcQ",
		},
		{
			url:      "https://www.youtube.com/shorts/abcdefghijk",
			expected: "abcdefghijk",
		},
		{
			url:      "https://www.youtube.com/embed/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			url:      "https://www.youtube.com/live/dQw4w9WgXcQ",
			expected: "dQw4w9WgXcQ",
		},
		{
			url:     "https://www.youtube.com/",
			wantErr: true,
		},
		{
			url:     "not a url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			result, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ExtractVideoID(%s) = %q, expected an error", tt.url, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%s) failed: %v", tt.url, err)
			}
			if result != tt.expected {
				t.Errorf("ExtractVideoID(%s) = %q, expected %q", tt.url, result, tt.expected)
			}
		})
	}
}

func TestBestProgressiveFormat(t *testing.T) {
	formats := youtube.FormatList{
		{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, Height: 1080},
		{ItagNo: 22, MimeType: `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, Height: 720, AudioQuality: "AUDIO_QUALITY_MEDIUM"},
		{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, Height: 360, AudioQuality: "AUDIO_QUALITY_LOW"},
		{ItagNo: 251, MimeType: `audio/webm; codecs="opus"`, AudioQuality: "AUDIO_QUALITY_MEDIUM"},
		{ItagNo: 313, MimeType: `video/webm; codecs="vp9"`, Height: 2160},
	}

	best := bestProgressiveFormat(formats)
	if best == nil {
		t.Fatal("bestProgressiveFormat returned nil, expected itag 22")
	}
	if best.ItagNo != 22 {
		t.Errorf("selected itag = %d, expected 22", best.ItagNo)
	}

	if got := bestProgressiveFormat(youtube.FormatList{
		{ItagNo: 137, MimeType: `video/mp4; codecs="avc1.640028"`, Height: 1080},
	}); got != nil {
		t.Errorf("expected nil for video-only formats, got itag %d", got.ItagNo)
	}

	if got := bestProgressiveFormat(nil); got != nil {
		t.Errorf("expected nil for empty format list, got itag %d", got.ItagNo)
	}
}

func TestTitleFromFiles(t *testing.T) {
	files := []downloader.File{
		{Path: filepath.Join("task", "cover.jpg"), Size: 20 * 1024},
		{Path: filepath.Join("task", "Some Video Title.mp4"), Size: 5 * 1024 * 1024},
	}
	if got := titleFromFiles(files); got != "Some Video Title" {
		t.Errorf("titleFromFiles = %q, expected %q", got, "Some Video Title")
	}
}

func TestTail(t *testing.T) {
	if got := tail("short", 100); got != "short" {
		t.Errorf("tail(short) = %q, expected unchanged string", got)
	}
	long := strings.Repeat("a", 50) + "ending"
	if got := tail(long, 6); got != "ending" {
		t.Errorf("tail kept %q, expected last 6 bytes", got)
	}
}
