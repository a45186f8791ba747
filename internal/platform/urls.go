package platform

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
)

const expandTimeout = 10 * time.Second

var urlPattern = regexp.MustCompile(`https?://\S+`)

var shortLinkHosts = []string{"vm.tiktok.com", "vt.tiktok.com", "on.soundcloud.com"}

// ExtractURLs pulls supported-platform links out of free text, in order of
// appearance, deduplicated. Trailing punctuation stuck to a link is removed.
func ExtractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var urls []string
	seen := make(map[string]bool)
	for _, match := range matches {
		candidate := strings.TrimRight(match, `.,;:!?)"'`)
		if Detect(candidate) == Unknown {
			continue
		}
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		urls = append(urls, candidate)
	}

	return urls
}

// IsShortLink reports whether the URL is a redirect-style short link that
// must be expanded before normalization.
func IsShortLink(rawURL string) bool {
	for _, host := range shortLinkHosts {
		if strings.Contains(rawURL, host) {
			return true
		}
	}
	return false
}

// ExpandShortURL resolves a redirecting URL to its final destination. Callers
// gate with IsShortLink. On any failure the original URL comes back so the
// pipeline can still try it.
func ExpandShortURL(ctx context.Context, rawURL string) string {
	ctx, cancel := context.WithTimeout(ctx, expandTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, http.NoBody)
	if err != nil {
		return rawURL
	}

	client := &http.Client{Timeout: expandTimeout}
	resp, err := client.Do(req)
	if err != nil {
		logutils.Log.WithError(err).Debugf("Failed to expand short link %s", rawURL)
		return rawURL
	}
	defer resp.Body.Close()

	final := resp.Request.URL.String()
	if final == "" {
		return rawURL
	}

	logutils.Log.Debugf("Expanded short link %s -> %s", rawURL, final)
	return final
}
