package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/platform"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

// Strategy is one attempt in a download chain. When is consulted with the
// previous attempt's error; a nil When means the strategy always runs.
type Strategy struct {
	Name       string
	Downloader downloader.Downloader
	When       func(prevErr error) bool
}

// Chain tries strategies in order until one succeeds. The task directory is
// reset between attempts so a failed attempt's leftovers are never collected.
type Chain struct {
	url         string
	contentType models.MediaType
	strategies  []Strategy
}

func (c *Chain) Platform() string {
	return platform.Detect(c.url).String()
}

func (c *Chain) ContentType() models.MediaType {
	return c.contentType
}

func (c *Chain) Download(ctx context.Context, destDir string) (*downloader.Result, error) {
	var lastErr error
	var attempts []string
	tried := make(map[string]bool)

	for _, strategy := range c.strategies {
		if tried[strategy.Name] {
			continue
		}
		if strategy.When != nil && !strategy.When(lastErr) {
			continue
		}
		tried[strategy.Name] = true

		if lastErr != nil {
			if err := ResetDir(destDir); err != nil {
				return nil, utils.WrapError(err, "failed to reset task directory", map[string]any{"dir": destDir})
			}
		}

		logutils.Log.WithFields(map[string]any{"strategy": strategy.Name, "url": c.url}).Info("starting download attempt")
		result, err := strategy.Downloader.Download(ctx, destDir)
		if err == nil {
			return result, nil
		}
		if IsCancellation(err) || ctx.Err() != nil {
			return nil, err
		}

		logutils.Log.WithError(err).WithField("strategy", strategy.Name).Warn("download attempt failed")
		lastErr = err
		attempts = append(attempts, fmt.Sprintf("%s: %v", strategy.Name, utils.RootError(err)))
	}

	if lastErr == nil {
		return nil, utils.WrapError(utils.ErrUnsupportedURL, "no download strategy applies", map[string]any{"url": c.url})
	}
	return nil, utils.WrapError(lastErr, "all download strategies failed", map[string]any{
		"url":      c.url,
		"attempts": strings.Join(attempts, "; "),
	})
}

var _ downloader.Downloader = (*Chain)(nil)

// ResetDir clears a task directory between strategy attempts so a failed
// attempt's leftovers are never collected as results.
func ResetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// IsCancellation reports whether the error is a context cancellation rather
// than a downloader failure.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// NewDownloader builds the strategy chain for a normalized URL. Platform and
// content type decide which tools run and in what order.
func NewDownloader(rawURL string, config *ddconfig.Config, progress func(float64)) downloader.Downloader {
	p := platform.Detect(rawURL)
	contentType := platform.ContentType(rawURL)
	cookies := CookiesFileFor(p)

	chain := &Chain{url: rawURL, contentType: contentType}

	switch {
	case contentType == models.MediaTypePhoto:
		chain.strategies = []Strategy{
			{Name: "gallery-dl", Downloader: NewGalleryDL(rawURL, contentType, cookies, config)},
			{Name: "yt-dlp", Downloader: NewYTDLP(rawURL, contentType, cookies, config, progress)},
		}
	case p == platform.YouTube:
		chain.strategies = []Strategy{
			{Name: "youtube-native", Downloader: NewYouTube(rawURL, config, progress)},
			{
				Name:       "yt-dlp-cookies",
				Downloader: NewYTDLP(rawURL, contentType, cookies, config, progress),
				When:       func(prevErr error) bool { return cookies != "" && IsBotDetectionError(prevErr) },
			},
			{Name: "yt-dlp", Downloader: NewYTDLP(rawURL, contentType, "", config, progress)},
			{
				Name:       "yt-dlp-cookies",
				Downloader: NewYTDLP(rawURL, contentType, cookies, config, progress),
				When:       func(prevErr error) bool { return cookies != "" && IsBotDetectionError(prevErr) },
			},
		}
	case p == platform.Instagram:
		chain.strategies = []Strategy{
			{Name: "yt-dlp", Downloader: NewYTDLP(rawURL, contentType, "", config, progress)},
			{
				Name:       "yt-dlp-cookies",
				Downloader: NewYTDLP(rawURL, contentType, cookies, config, progress),
				When:       func(prevErr error) bool { return cookies != "" && (IsAuthError(prevErr) || IsBotDetectionError(prevErr)) },
			},
			{Name: "gallery-dl", Downloader: NewGalleryDL(rawURL, contentType, cookies, config)},
		}
	default:
		chain.strategies = []Strategy{
			{Name: "yt-dlp", Downloader: NewYTDLP(rawURL, contentType, cookies, config, progress)},
		}
		if p == platform.TikTok {
			chain.strategies = append(chain.strategies, Strategy{
				Name:       "gallery-dl",
				Downloader: NewGalleryDL(rawURL, contentType, cookies, config),
			})
		}
	}

	return chain
}
