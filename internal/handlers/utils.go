package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dreamcatchered/dreamDownloader/internal/lang"
	"github.com/dreamcatchered/dreamDownloader/internal/platform"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

// Telegram rejects messages over 4096 characters. Transcript chunks stay a
// bit under that so the HTML header still fits.
const (
	maxMessageLength     = 4096
	transcriptChunkLimit = 4000
)

var messageURLPattern = regexp.MustCompile(
	`(?i)(https?://\S+|(?:www\.)?(?:instagram\.com|tiktok\.com|vm\.tiktok\.com|vt\.tiktok\.com|youtube\.com|youtu\.be|soundcloud\.com|on\.soundcloud\.com)/\S+)`)

func containsURL(text string) bool {
	return messageURLPattern.MatchString(text)
}

// extractMessageURLs pulls links out of free text and splits them into
// supported and unsupported. Scheme-less links get https:// prepended, and
// links to the bot itself (deep links) are dropped entirely.
func extractMessageURLs(text, botUsername string) (supported, unsupported []string) {
	lowerBot := strings.ToLower(botUsername)
	for _, match := range messageURLPattern.FindAllString(text, -1) {
		candidate := strings.TrimRight(match, `.,;:!?)"'`)
		if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
			candidate = "https://" + candidate
		}

		lower := strings.ToLower(candidate)
		if lowerBot != "" && (strings.Contains(lower, "t.me/"+lowerBot) || strings.Contains(lower, "telegram.me/"+lowerBot)) {
			continue
		}

		if platform.Detect(candidate) == platform.Unknown {
			unsupported = append(unsupported, candidate)
		} else {
			supported = append(supported, candidate)
		}
	}
	return supported, unsupported
}

// dedupeByNormalized drops URLs that normalize to the same cache key, keeping
// first occurrences in order.
func dedupeByNormalized(urls []string) []string {
	var unique []string
	seen := make(map[string]bool)
	for _, rawURL := range urls {
		key := rawURL
		if normalized, err := platform.Normalize(rawURL); err == nil {
			key = normalized
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, rawURL)
	}
	return unique
}

// chunkText splits text into pieces of at most limit runes, breaking between
// words. A single word longer than the limit becomes its own oversized chunk.
func chunkText(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0
	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		switch {
		case currentLen == 0:
			current.WriteString(word)
			currentLen = wordLen
		case currentLen+1+wordLen <= limit:
			current.WriteByte(' ')
			current.WriteString(word)
			currentLen += 1 + wordLen
		default:
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(word)
			currentLen = wordLen
		}
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// parseStartPayload extracts the cache id from a "file_<id>" deep-link
// argument.
func parseStartPayload(arg string) (uint, bool) {
	rest, found := strings.CutPrefix(arg, "file_")
	if !found {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func convCallbackData(action string, cacheID uint) string {
	return fmt.Sprintf("conv_%s_%d", action, cacheID)
}

// parseConvCallback splits "conv_<action>_<id>" callback data. The id sits
// after the last underscore so actions themselves may not contain one.
func parseConvCallback(data string) (action string, cacheID uint, ok bool) {
	rest, found := strings.CutPrefix(data, "conv_")
	if !found {
		return "", 0, false
	}
	idx := strings.LastIndex(rest, "_")
	if idx <= 0 {
		return "", 0, false
	}
	id, err := strconv.ParseUint(rest[idx+1:], 10, 32)
	if err != nil || id == 0 {
		return "", 0, false
	}
	return rest[:idx], uint(id), true
}

// batchTranscriptionKey names the synthetic transcription row storing a
// combined voice-batch transcript. The count rides inside the key so the
// summary header can say how many messages went in.
func batchTranscriptionKey(count int, firstUniqueID string) string {
	return fmt.Sprintf("batch_%d_%s", count, firstUniqueID)
}

func parseBatchCount(key string) int {
	rest, found := strings.CutPrefix(key, "batch_")
	if !found {
		return 0
	}
	countStr, _, found := strings.Cut(rest, "_")
	if !found {
		return 0
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return 0
	}
	return count
}

var audioMarkers = []string{"mp3", "wav", "ogg", "m4a", "aac", "flac", "opus"}

// looksLikeAudio reports whether a forwarded document or audio attachment is
// an audio file the conversion menu can work with.
func looksLikeAudio(mimeType, fileName string) bool {
	mime := strings.ToLower(mimeType)
	if strings.HasPrefix(mime, "audio/") {
		return true
	}
	name := strings.ToLower(fileName)
	for _, marker := range audioMarkers {
		if strings.Contains(mime, marker) || strings.HasSuffix(name, "."+marker) {
			return true
		}
	}
	return false
}

// downloadErrorMessage maps a pipeline error to the localized text shown to
// the user.
func downloadErrorMessage(err error) string {
	switch {
	case errors.Is(err, utils.ErrBotDetected):
		return lang.GetMessage(lang.BotDetectedMsgID)
	case errors.Is(err, utils.ErrLoginRequired):
		return lang.GetMessage(lang.LoginRequiredMsgID)
	case errors.Is(err, utils.ErrDownloadTimeout), errors.Is(err, context.DeadlineExceeded):
		return lang.GetMessage(lang.DownloadTimeoutMsgID)
	case errors.Is(err, utils.ErrNoMediaFound):
		return lang.GetMessage(lang.NoMediaFoundMsgID)
	case errors.Is(err, utils.ErrFileTooLarge):
		return lang.GetMessage(lang.FileTooLargeMsgID)
	default:
		return lang.GetMessage(lang.DownloadFailedMsgID, utils.RootError(err).Error())
	}
}
