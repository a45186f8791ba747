package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
)

func TestMain(m *testing.M) {
	logutils.InitLogger("error")
	os.Exit(m.Run())
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected Platform
	}{
		{"YouTube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", YouTube},
		{"YouTube short host", "https://youtu.be/dQw4w9WgXcQ", YouTube},
		{"YouTube mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", YouTube},
		{"YouTube shorts", "https://www.youtube.com/shorts/abc123", YouTube},
		{"YouTube music", "https://music.youtube.com/watch?v=abc", YouTube},
		{"Instagram post", "https://www.instagram.com/p/Cxyz123/", Instagram},
		{"Instagram reel", "https://www.instagram.com/reel/Cxyz123/", Instagram},
		{"TikTok video", "https://www.tiktok.com/@user/video/123456", TikTok},
		{"TikTok short vm", "https://vm.tiktok.com/ZM8abc/", TikTok},
		{"TikTok short vt", "https://vt.tiktok.com/ZS2def/", TikTok},
		{"SoundCloud track", "https://soundcloud.com/artist/track-name", SoundCloud},
		{"SoundCloud short", "https://on.soundcloud.com/abc", SoundCloud},
		{"Unknown site", "https://example.com/video", Unknown},
		{"Lookalike domain", "https://notyoutube.com/watch?v=1", Unknown},
		{"Empty string", "", Unknown},
		{"Garbage", "://///", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Detect(tt.url)
			if result != tt.expected {
				t.Errorf("Detect(%q) = %s, want %s", tt.url, result, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			"YouTube keeps v",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123&index=4",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			"YouTube keeps v and t",
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s&feature=share",
			"https://www.youtube.com/watch?t=42s&v=dQw4w9WgXcQ",
		},
		{
			"Instagram keeps img_index",
			"https://www.instagram.com/p/Cxyz123/?img_index=3&utm_source=ig_web",
			"https://www.instagram.com/p/Cxyz123?img_index=3",
		},
		{
			"Instagram drops tracking",
			"https://www.instagram.com/reel/Cxyz123/?igsh=abcdef",
			"https://www.instagram.com/reel/Cxyz123",
		},
		{
			"TikTok drops query",
			"https://www.tiktok.com/@user/video/123?is_from_webapp=1&sender_device=pc",
			"https://www.tiktok.com/@user/video/123",
		},
		{
			"SoundCloud drops query",
			"https://soundcloud.com/artist/track?si=xyz",
			"https://soundcloud.com/artist/track",
		},
		{
			"Fragment stripped",
			"https://www.youtube.com/watch?v=abc#comments",
			"https://www.youtube.com/watch?v=abc",
		},
		{
			"Host lowercased",
			"https://WWW.TikTok.com/@User/video/9",
			"https://www.tiktok.com/@User/video/9",
		},
		{
			"Unknown platform keeps query",
			"https://example.com/page?a=1",
			"https://example.com/page?a=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Normalize(tt.url)
			if err != nil {
				t.Fatalf("Normalize(%q) returned error: %v", tt.url, err)
			}
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.url, result, tt.expected)
			}

			// Normalizing an already normalized URL must be a no-op.
			again, err := Normalize(result)
			if err != nil {
				t.Fatalf("Normalize(%q) second pass returned error: %v", result, err)
			}
			if again != result {
				t.Errorf("Normalize is not idempotent: %q -> %q", result, again)
			}
		})
	}
}

func TestNormalizeInvalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"Empty", ""},
		{"No scheme", "www.youtube.com/watch?v=1"},
		{"Plain text", "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize(tt.url); err == nil {
				t.Errorf("Normalize(%q): expected error, got nil", tt.url)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected models.MediaType
	}{
		{"Instagram photo post", "https://www.instagram.com/p/Cxyz/", models.MediaTypePhoto},
		{"Instagram reel", "https://www.instagram.com/reel/Cxyz/", models.MediaTypeVideo},
		{"Instagram tv", "https://www.instagram.com/tv/Cxyz/", models.MediaTypeVideo},
		{"TikTok photo", "https://www.tiktok.com/@user/photo/123", models.MediaTypePhoto},
		{"TikTok video", "https://www.tiktok.com/@user/video/123", models.MediaTypeVideo},
		{"SoundCloud", "https://soundcloud.com/artist/track", models.MediaTypeAudio},
		{"YouTube", "https://www.youtube.com/watch?v=abc", models.MediaTypeVideo},
		{"Unknown", "https://example.com/whatever", models.MediaTypeVideo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ContentType(tt.url)
			if result != tt.expected {
				t.Errorf("ContentType(%q) = %s, want %s", tt.url, result, tt.expected)
			}
		})
	}
}

func TestExtractURLs(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			"Single link",
			"check this https://www.youtube.com/watch?v=abc out",
			[]string{"https://www.youtube.com/watch?v=abc"},
		},
		{
			"Multiple links preserve order",
			"https://youtu.be/one and https://www.tiktok.com/@u/video/2",
			[]string{"https://youtu.be/one", "https://www.tiktok.com/@u/video/2"},
		},
		{
			"Duplicates removed",
			"https://youtu.be/one https://youtu.be/one",
			[]string{"https://youtu.be/one"},
		},
		{
			"Unsupported links skipped",
			"see https://example.com/page and https://youtu.be/keepme",
			[]string{"https://youtu.be/keepme"},
		},
		{
			"Trailing punctuation trimmed",
			"look: https://www.instagram.com/p/Cxyz/!",
			[]string{"https://www.instagram.com/p/Cxyz/"},
		},
		{
			"No links",
			"just some words",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractURLs(tt.text)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("ExtractURLs(%q) = %v, want %v", tt.text, result, tt.expected)
			}
		})
	}
}

func TestIsShortLink(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://vm.tiktok.com/ZM8abc/", true},
		{"https://vt.tiktok.com/ZS2def/", true},
		{"https://on.soundcloud.com/xyz", true},
		{"https://www.tiktok.com/@user/video/1", false},
		{"https://youtu.be/abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsShortLink(tt.url); got != tt.expected {
				t.Errorf("IsShortLink(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}

func TestExpandShortURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	t.Run("Redirect followed to final URL", func(t *testing.T) {
		got := ExpandShortURL(context.Background(), server.URL+"/short")
		want := server.URL + "/final"
		if got != want {
			t.Errorf("ExpandShortURL() = %q, want %q", got, want)
		}
	})

	t.Run("Unreachable host returns original", func(t *testing.T) {
		url := "https://vm.tiktok.com.invalid/ZMdead/"
		if got := ExpandShortURL(context.Background(), url); got != url {
			t.Errorf("ExpandShortURL(%q) = %q, want original on failure", url, got)
		}
	})
}
