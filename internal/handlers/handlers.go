// Package handlers routes Telegram updates to the download, conversion,
// transcription, QR and inline flows.
package handlers

import (
	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/ratelimit"
)

var (
	downloadLimiter *ratelimit.Limiter
	voiceBatcher    *batcher
)

// Setup wires the package-level state the handlers share. Call once at
// startup after the config is loaded.
func Setup(config *ddconfig.Config) {
	downloadLimiter = ratelimit.NewLimiter(config.DownloadSettings.RateLimitPerMinute)
	voiceBatcher = newBatcher(voiceBatchDelay, voiceBatchLimit)
}
