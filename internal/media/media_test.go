package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
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

func testProcessor(t *testing.T) *Processor {
	t.Helper()
	return NewProcessor(&ddconfig.Config{
		DownloadSettings: ddconfig.DownloadConfig{
			MaxConcurrentConversions:   2,
			MaxConcurrentOptimizations: 2,
		},
		MediaSettings: ddconfig.MediaConfig{
			OptimizeThreshold: ddconfig.DefaultOptimizeThreshold,
			CompressTarget:    ddconfig.DefaultCompressTarget,
		},
	})
}

func TestCompressBitrateKbps(t *testing.T) {
	target := ddconfig.DefaultCompressTarget

	tests := []struct {
		name     string
		duration float64
		expected int
	}{
		{
			name:     "one minute video",
			duration: 60,
			expected: 5905,
		},
		{
			name:     "ten minute video",
			duration: 600,
			expected: 486,
		},
		{
			name:     "audio track alone exceeds the budget",
			duration: 10000,
			expected: 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compressBitrateKbps(target, tt.duration); got != tt.expected {
				t.Errorf("compressBitrateKbps(%d, %v) = %d, expected %d", target, tt.duration, got, tt.expected)
			}
		})
	}

	if got := compressBitrateKbps(1024*1024, 60); got != minVideoBitrateKbps {
		t.Errorf("tiny target bitrate = %d, expected the %dk floor", got, minVideoBitrateKbps)
	}
}

func TestBuildOptimizeArgs(t *testing.T) {
	args := buildOptimizeArgs("in.mp4", "out.mp4")

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-c:v libx264",
		"-preset superfast",
		"-crf 26",
		"-profile:v main",
		"-pix_fmt yuv420p",
		"-vf " + evenScaleFilter,
		"-b:a 128k",
		"-ac 2",
		"-movflags +faststart",
		"-metadata:s:v:0 rotate=0",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("optimize args missing %q in %q", want, joined)
		}
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("last arg = %q, expected the output path", args[len(args)-1])
	}
}

func TestBuildCompressArgs(t *testing.T) {
	args := buildCompressArgs("in.mp4", "out.mp4", 1000)

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-b:v 1000k",
		"-maxrate 1500k",
		"-bufsize 2000k",
		"-preset medium",
		"-pix_fmt yuv420p",
		"-movflags +faststart",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("compress args missing %q in %q", want, joined)
		}
	}
}

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"track.mp3", true},
		{"TRACK.FLAC", true},
		{"voice.ogg", true},
		{"clip.mp4", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if got := isAudioFile(tt.path); got != tt.expected {
			t.Errorf("isAudioFile(%s) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"61.503000", 61.503},
		{"0", 0},
		{"N/A", 0},
		{"", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		if got := parseSeconds(tt.input); got != tt.expected {
			t.Errorf("parseSeconds(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestVideoInfoHelpers(t *testing.T) {
	vertical := &VideoInfo{Width: 720, Height: 1280}
	if !vertical.IsVertical() {
		t.Error("720x1280 should be vertical")
	}
	if vertical.HasAspectRatio() {
		t.Error("empty DAR should report no aspect ratio")
	}

	vertical.DisplayAspectRatio = "N/A"
	if vertical.HasAspectRatio() {
		t.Error("N/A DAR should report no aspect ratio")
	}

	vertical.DisplayAspectRatio = "9:16"
	if !vertical.HasAspectRatio() {
		t.Error("9:16 DAR should report an aspect ratio")
	}

	horizontal := &VideoInfo{Width: 1920, Height: 1080}
	if horizontal.IsVertical() {
		t.Error("1920x1080 should not be vertical")
	}
}

func TestNeedsOptimizationBySize(t *testing.T) {
	p := NewProcessor(&ddconfig.Config{
		DownloadSettings: ddconfig.DownloadConfig{
			MaxConcurrentConversions:   1,
			MaxConcurrentOptimizations: 1,
		},
		MediaSettings: ddconfig.MediaConfig{OptimizeThreshold: 1024},
	})

	dir := t.TempDir()
	big := filepath.Join(dir, "big.mp4")
	if err := os.WriteFile(big, make([]byte, 4*1024), 0o644); err != nil {
		t.Fatal(err)
	}

	needs, reason := p.NeedsOptimization(context.Background(), big)
	if !needs {
		t.Error("oversized file should need optimization")
	}
	if !strings.Contains(reason, "exceeds") {
		t.Errorf("reason = %q, expected a size explanation", reason)
	}
}

func TestNeedsOptimizationUnprobeableFile(t *testing.T) {
	p := testProcessor(t)

	dir := t.TempDir()
	garbage := filepath.Join(dir, "not-a-video.mp4")
	if err := os.WriteFile(garbage, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	needs, _ := p.NeedsOptimization(context.Background(), garbage)
	if !needs {
		t.Error("a file that cannot be probed should be re-encoded")
	}
}
