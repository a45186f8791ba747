package video

import (
	"errors"
	"strings"

	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

var botDetectionMarkers = []string{
	"sign in to confirm",
	"not a bot",
	"confirm you're not a bot",
	"429",
	"too many requests",
}

var authMarkers = []string{
	"login required",
	"requested content is not available",
	"private",
	"401",
	"403",
	"rate-limit reached",
	"rate limit",
	"use --cookies",
	"age-restricted",
	"age restricted",
}

var noMediaMarkers = []string{
	"unsupported url",
	"no video formats",
	"no media found",
	"unable to extract",
}

// classifyOutput maps downloader output to a sentinel error so strategy
// chains can decide on cookie retries.
func classifyOutput(output string) error {
	lower := strings.ToLower(output)

	for _, marker := range botDetectionMarkers {
		if strings.Contains(lower, marker) {
			return utils.ErrBotDetected
		}
	}
	for _, marker := range authMarkers {
		if strings.Contains(lower, marker) {
			return utils.ErrLoginRequired
		}
	}
	for _, marker := range noMediaMarkers {
		if strings.Contains(lower, marker) {
			return utils.ErrNoMediaFound
		}
	}

	return utils.ErrDownloadFailed
}

// IsBotDetectionError reports whether the error or its text indicates the
// source wants human verification.
func IsBotDetectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, utils.ErrBotDetected) {
		return true
	}
	return errors.Is(classifyOutput(err.Error()), utils.ErrBotDetected)
}

// IsAuthError reports whether the error indicates missing login or a private
// post, the cases a cookie file can fix.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, utils.ErrLoginRequired) {
		return true
	}
	return errors.Is(classifyOutput(err.Error()), utils.ErrLoginRequired)
}
