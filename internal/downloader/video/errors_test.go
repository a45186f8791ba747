package video

import (
	"errors"
	"testing"

	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

func TestClassifyOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected error
	}{
		{
			name:     "bot detection phrase",
			output:   "ERROR: [youtube] dQw4w9WgXcQ: Sign in to confirm you're not a bot.",
			expected: utils.ErrBotDetected,
		},
		{
			name:     "http 429",
			output:   "ERROR: unable to download webpage: HTTP Error 429: Too Many Requests",
			expected: utils.ErrBotDetected,
		},
		{
			name:     "login required",
			output:   "ERROR: [Instagram] ABC123: login required. Use --cookies for authentication",
			expected: utils.ErrLoginRequired,
		},
		{
			name:     "private post",
			output:   "ERROR: [Instagram] ABC123: You need to log in to access this private account",
			expected: utils.ErrLoginRequired,
		},
		{
			name:     "rate limit",
			output:   "ERROR: [Instagram] rate-limit reached or login required",
			expected: utils.ErrLoginRequired,
		},
		{
			name:     "unsupported url",
			output:   "ERROR: Unsupported URL: https://example.com/page",
			expected: utils.ErrNoMediaFound,
		},
		{
			name:     "extraction failure",
			output:   "ERROR: unable to extract shared data",
			expected: utils.ErrNoMediaFound,
		},
		{
			name:     "unclassified output",
			output:   "ERROR: ffmpeg exited with code 1",
			expected: utils.ErrDownloadFailed,
		},
		{
			name:     "empty output",
			output:   "",
			expected: utils.ErrDownloadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifyOutput(tt.output)
			if !errors.Is(result, tt.expected) {
				t.Errorf("classifyOutput(%q) = %v, expected %v", tt.output, result, tt.expected)
			}
		})
	}
}

func TestIsBotDetectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "wrapped sentinel",
			err:      utils.WrapError(utils.ErrBotDetected, "yt-dlp failed", nil),
			expected: true,
		},
		{
			name:     "marker in message",
			err:      errors.New("can't continue: Sign in to confirm you're not a bot"),
			expected: true,
		},
		{
			name:     "unrelated error",
			err:      errors.New("connection refused"),
			expected: false,
		},
		{
			name:     "auth error is not bot detection",
			err:      utils.WrapError(utils.ErrLoginRequired, "yt-dlp failed", nil),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsBotDetectionError(tt.err); result != tt.expected {
				t.Errorf("IsBotDetectionError(%v) = %v, expected %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "wrapped sentinel",
			err:      utils.WrapError(utils.ErrLoginRequired, "yt-dlp failed", nil),
			expected: true,
		},
		{
			name:     "marker in message",
			err:      errors.New("HTTP Error 403: Forbidden"),
			expected: true,
		},
		{
			name:     "unrelated error",
			err:      errors.New("no space left on device"),
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsAuthError(tt.err); result != tt.expected {
				t.Errorf("IsAuthError(%v) = %v, expected %v", tt.err, result, tt.expected)
			}
		})
	}
}
