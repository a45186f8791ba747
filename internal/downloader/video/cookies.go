package video

import (
	"os"

	"github.com/dreamcatchered/dreamDownloader/internal/platform"
)

const (
	InstagramCookiesFile = "ig_cookies.txt"
	YouTubeCookiesFile   = "yt_cookies.txt"
	GenericCookiesFile   = "cookies.txt"
)

// CookiesFileFor returns the cookie file to pass for a platform, preferring
// the platform-specific file over the generic one. Files are stat-ed on every
// call so the operator can replace them without a restart.
func CookiesFileFor(p platform.Platform) string {
	var candidates []string
	switch p {
	case platform.Instagram:
		candidates = []string{InstagramCookiesFile, GenericCookiesFile}
	case platform.YouTube:
		candidates = []string{YouTubeCookiesFile, GenericCookiesFile}
	default:
		candidates = []string{GenericCookiesFile}
	}

	for _, name := range candidates {
		if info, err := os.Stat(name); err == nil && !info.IsDir() && info.Size() > 0 {
			return name
		}
	}
	return ""
}
