package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
)

func TestMain(m *testing.M) {
	if logutils.Log == nil {
		logutils.InitLogger("error")
	}
	os.Exit(m.Run())
}

func testTranscriber(apiURL string) *Transcriber {
	tr := NewTranscriber(&ddconfig.Config{
		SpeechLang: "ru-RU",
		DownloadSettings: ddconfig.DownloadConfig{
			MaxConcurrentTranscriptions: 2,
		},
	})
	tr.apiURL = apiURL
	return tr
}

func TestParseSpeechResponse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name: "empty result line precedes the final one",
			body: `{"result":[]}
{"result":[{"alternative":[{"transcript":"привет мир","confidence":0.98}],"final":true}],"result_index":0}`,
			expected: "привет мир",
		},
		{
			name: "highest confidence wins",
			body: `{"result":[{"alternative":[{"transcript":"плохой вариант","confidence":0.3},{"transcript":"хороший вариант","confidence":0.9}],"final":true}]}`,
			expected: "хороший вариант",
		},
		{
			name:     "no confidence keeps the first alternative",
			body:     `{"result":[{"alternative":[{"transcript":"первый"},{"transcript":"второй"}],"final":true}]}`,
			expected: "первый",
		},
		{
			name: "garbage lines are skipped",
			body: `not json at all
{"result":[{"alternative":[{"transcript":"текст"}]}]}`,
			expected: "текст",
		},
		{
			name:     "only empty results",
			body:     `{"result":[]}`,
			expected: "",
		},
		{
			name:     "empty body",
			body:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseSpeechResponse(tt.body); got != tt.expected {
				t.Errorf("parseSpeechResponse = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestBuildSegmentArgs(t *testing.T) {
	args := buildSegmentArgs("input.mp4", "/tmp/seg/segment_%03d.flac")

	pairs := map[string]string{
		"-i":            "input.mp4",
		"-ar":           "16000",
		"-ac":           "1",
		"-c:a":          "flac",
		"-f":            "segment",
		"-segment_time": "30",
	}
	for flag, expected := range pairs {
		found := false
		for i := 0; i < len(args)-1; i++ {
			if args[i] == flag {
				found = true
				if args[i+1] != expected {
					t.Errorf("%s = %q, expected %q", flag, args[i+1], expected)
				}
				break
			}
		}
		if !found {
			t.Errorf("args missing flag %s", flag)
		}
	}

	hasVN := false
	for _, arg := range args {
		if arg == "-vn" {
			hasVN = true
		}
	}
	if !hasVN {
		t.Error("args should drop the video stream with -vn")
	}
	if args[len(args)-1] != "/tmp/seg/segment_%03d.flac" {
		t.Errorf("last arg = %q, expected the output pattern", args[len(args)-1])
	}
}

func TestRecognizeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "audio/x-flac; rate=16000" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := r.URL.Query().Get("lang"); got != "ru-RU" {
			t.Errorf("lang = %q, expected ru-RU", got)
		}
		if got := r.URL.Query().Get("client"); got != "chromium" {
			t.Errorf("client = %q, expected chromium", got)
		}
		fmt.Fprintln(w, `{"result":[]}`)
		fmt.Fprintln(w, `{"result":[{"alternative":[{"transcript":"раз два три","confidence":0.95}],"final":true}],"result_index":0}`)
	}))
	defer srv.Close()

	segment := filepath.Join(t.TempDir(), "segment_000.flac")
	if err := os.WriteFile(segment, []byte("fLaC fake audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := testTranscriber(srv.URL).recognize(context.Background(), segment)
	if err != nil {
		t.Fatalf("recognize returned error: %v", err)
	}
	if got != "раз два три" {
		t.Errorf("recognize = %q, expected %q", got, "раз два три")
	}
}

func TestRecognizeEmptySegmentSkipsAPI(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	segment := filepath.Join(t.TempDir(), "segment_000.flac")
	if err := os.WriteFile(segment, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := testTranscriber(srv.URL).recognize(context.Background(), segment)
	if err != nil {
		t.Fatalf("recognize returned error: %v", err)
	}
	if got != "" {
		t.Errorf("recognize = %q, expected empty text", got)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Error("empty segment should not reach the API")
	}
}

func TestRecognizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusForbidden)
	}))
	defer srv.Close()

	segment := filepath.Join(t.TempDir(), "segment_000.flac")
	if err := os.WriteFile(segment, []byte("fLaC"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := testTranscriber(srv.URL).recognize(context.Background(), segment); err == nil {
		t.Error("recognize accepted a server error")
	}
}

type timeoutError struct{}

func (timeoutError) Error() string { return "deadline exceeded" }
func (timeoutError) Timeout() bool { return true }

func TestIsTimeout(t *testing.T) {
	if !isTimeout(timeoutError{}) {
		t.Error("timeout error not detected")
	}
	if !isTimeout(fmt.Errorf("request failed: %w", timeoutError{})) {
		t.Error("wrapped timeout error not detected")
	}
	if isTimeout(errors.New("plain failure")) {
		t.Error("plain error reported as timeout")
	}
}
