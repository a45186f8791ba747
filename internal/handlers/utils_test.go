package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

func TestMain(m *testing.M) {
	if logutils.Log == nil {
		logutils.InitLogger("error")
	}
	if err := lang.SetupLang(&ddconfig.Config{Lang: "ru"}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestContainsURL(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"plain link", "https://www.instagram.com/reel/abc/", true},
		{"link mid-sentence", "глянь https://youtu.be/abc срочно", true},
		{"scheme-less known host", "видео на www.tiktok.com/@user/video/1", true},
		{"no link", "просто текст без ссылок", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containsURL(tt.text); got != tt.expected {
				t.Errorf("containsURL(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestExtractMessageURLs(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		supported   []string
		unsupported []string
	}{
		{
			"single supported",
			"https://www.instagram.com/reel/abc/",
			[]string{"https://www.instagram.com/reel/abc/"},
			nil,
		},
		{
			"scheme-less gets https",
			"глянь www.tiktok.com/@user/video/123",
			[]string{"https://www.tiktok.com/@user/video/123"},
			nil,
		},
		{
			"trailing punctuation trimmed",
			"вот: https://youtu.be/abc123, круто же",
			[]string{"https://youtu.be/abc123"},
			nil,
		},
		{
			"unsupported split out",
			"https://example.com/video и https://soundcloud.com/a/b",
			[]string{"https://soundcloud.com/a/b"},
			[]string{"https://example.com/video"},
		},
		{
			"own deep link skipped",
			"https://t.me/testbot?start=file_5 и https://youtu.be/abc",
			[]string{"https://youtu.be/abc"},
			nil,
		},
		{
			"several supported keep order",
			"https://youtu.be/one https://vm.tiktok.com/two/",
			[]string{"https://youtu.be/one", "https://vm.tiktok.com/two/"},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supported, unsupported := extractMessageURLs(tt.text, "testbot")
			if !reflect.DeepEqual(supported, tt.supported) {
				t.Errorf("supported = %v, want %v", supported, tt.supported)
			}
			if !reflect.DeepEqual(unsupported, tt.unsupported) {
				t.Errorf("unsupported = %v, want %v", unsupported, tt.unsupported)
			}
		})
	}
}

func TestDedupeByNormalized(t *testing.T) {
	urls := []string{
		"https://www.youtube.com/watch?v=abc&list=PL1",
		"https://www.youtube.com/watch?v=abc&index=2",
		"https://www.tiktok.com/@user/video/42",
	}

	got := dedupeByNormalized(urls)
	want := []string{
		"https://www.youtube.com/watch?v=abc&list=PL1",
		"https://www.tiktok.com/@user/video/42",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupeByNormalized = %v, want %v", got, want)
	}
}

func TestChunkTextShortTextStaysWhole(t *testing.T) {
	chunks := chunkText("короткий текст", 100)
	if len(chunks) != 1 || chunks[0] != "короткий текст" {
		t.Errorf("expected a single untouched chunk, got %v", chunks)
	}
}

func TestChunkTextSplitsBetweenWords(t *testing.T) {
	chunks := chunkText("aaaa bbbb cccc", 9)
	want := []string{"aaaa bbbb", "cccc"}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("chunkText = %v, want %v", chunks, want)
	}
}

func TestChunkTextCountsRunesNotBytes(t *testing.T) {
	// "привет" is 6 runes but 12 bytes; a byte counter would split it off.
	chunks := chunkText("привет мир", 6)
	want := []string{"привет", "мир"}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("chunkText = %v, want %v", chunks, want)
	}
}

func TestChunkTextOversizedWordKept(t *testing.T) {
	chunks := chunkText("abcdefghij", 3)
	if len(chunks) != 1 || chunks[0] != "abcdefghij" {
		t.Errorf("an oversized word should become its own chunk, got %v", chunks)
	}
}

func TestChunkTextLimits(t *testing.T) {
	text := strings.Repeat("слово ", 3000)
	for i, chunk := range chunkText(text, transcriptChunkLimit) {
		if utf8.RuneCountInString(chunk) > transcriptChunkLimit {
			t.Errorf("chunk %d exceeds the limit: %d runes", i, utf8.RuneCountInString(chunk))
		}
	}
}

func TestParseStartPayload(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		cacheID uint
		ok      bool
	}{
		{"valid", "file_42", 42, true},
		{"zero id", "file_0", 0, false},
		{"not a number", "file_abc", 0, false},
		{"wrong prefix", "item_42", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cacheID, ok := parseStartPayload(tt.arg)
			if cacheID != tt.cacheID || ok != tt.ok {
				t.Errorf("parseStartPayload(%q) = (%d, %v), want (%d, %v)", tt.arg, cacheID, ok, tt.cacheID, tt.ok)
			}
		})
	}
}

func TestConvCallbackRoundtrip(t *testing.T) {
	for _, action := range []string{"note", "voice", "mp3", "file", "transcription"} {
		data := convCallbackData(action, 17)
		gotAction, gotID, ok := parseConvCallback(data)
		if !ok || gotAction != action || gotID != 17 {
			t.Errorf("roundtrip of %q failed: got (%q, %d, %v)", data, gotAction, gotID, ok)
		}
	}
}

func TestParseConvCallbackRejectsMalformed(t *testing.T) {
	tests := []string{
		"conv_note",
		"conv__5",
		"conv_note_0",
		"conv_note_abc",
		"summarize:xyz",
		"",
	}
	for _, data := range tests {
		if _, _, ok := parseConvCallback(data); ok {
			t.Errorf("parseConvCallback(%q) should fail", data)
		}
	}
}

func TestBatchTranscriptionKey(t *testing.T) {
	key := batchTranscriptionKey(3, "AgADuniq")
	if key != "batch_3_AgADuniq" {
		t.Errorf("unexpected key %q", key)
	}
	if got := parseBatchCount(key); got != 3 {
		t.Errorf("parseBatchCount(%q) = %d, want 3", key, got)
	}
}

func TestParseBatchCount(t *testing.T) {
	tests := []struct {
		key      string
		expected int
	}{
		{"batch_12_x_y", 12},
		{"batch_1_abc", 1},
		{"nobatch_3_x", 0},
		{"batch_x_1", 0},
		{"batch_5", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseBatchCount(tt.key); got != tt.expected {
			t.Errorf("parseBatchCount(%q) = %d, want %d", tt.key, got, tt.expected)
		}
	}
}

func TestLooksLikeAudio(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		fileName string
		expected bool
	}{
		{"audio mime", "audio/mpeg", "blob.bin", true},
		{"mp3 extension", "", "track.mp3", true},
		{"uppercase extension", "", "SONG.MP3", true},
		{"opus in mime params", "audio/ogg; codecs=opus", "", true},
		{"video file", "video/mp4", "clip.mp4", false},
		{"text document", "text/plain", "notes.txt", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksLikeAudio(tt.mimeType, tt.fileName); got != tt.expected {
				t.Errorf("looksLikeAudio(%q, %q) = %v, want %v", tt.mimeType, tt.fileName, got, tt.expected)
			}
		})
	}
}

func TestDownloadErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"bot detected", utils.ErrBotDetected, lang.GetMessage(lang.BotDetectedMsgID)},
		{"wrapped login required", fmt.Errorf("strategy: %w", utils.ErrLoginRequired), lang.GetMessage(lang.LoginRequiredMsgID)},
		{"timeout", utils.ErrDownloadTimeout, lang.GetMessage(lang.DownloadTimeoutMsgID)},
		{"context deadline", context.DeadlineExceeded, lang.GetMessage(lang.DownloadTimeoutMsgID)},
		{"no media", utils.ErrNoMediaFound, lang.GetMessage(lang.NoMediaFoundMsgID)},
		{"too large", utils.ErrFileTooLarge, lang.GetMessage(lang.FileTooLargeMsgID)},
		{"unknown error shows root cause", fmt.Errorf("strategy failed: %w", errors.New("boom")), lang.GetMessage(lang.DownloadFailedMsgID, "boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := downloadErrorMessage(tt.err); got != tt.expected {
				t.Errorf("downloadErrorMessage = %q, want %q", got, tt.expected)
			}
		})
	}
}
