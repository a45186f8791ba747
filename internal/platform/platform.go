package platform

import (
	"net/url"
	"strings"

	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

type Platform string

const (
	YouTube    Platform = "youtube"
	Instagram  Platform = "instagram"
	TikTok     Platform = "tiktok"
	SoundCloud Platform = "soundcloud"
	Unknown    Platform = "unknown"
)

func (p Platform) String() string {
	return string(p)
}

var platformHosts = map[Platform][]string{
	YouTube:    {"youtube.com", "youtu.be", "music.youtube.com"},
	Instagram:  {"instagram.com", "instagr.am"},
	TikTok:     {"tiktok.com", "vm.tiktok.com", "vt.tiktok.com"},
	SoundCloud: {"soundcloud.com", "on.soundcloud.com"},
}

// Detect identifies the platform by hostname. Subdomains match their parent
// domain, so www.youtube.com and m.youtube.com are both YouTube.
func Detect(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return Unknown
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return Unknown
	}

	for platform, domains := range platformHosts {
		for _, domain := range domains {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return platform
			}
		}
	}

	return Unknown
}

// Normalize produces the canonical form of a media URL used as the cache and
// history key. Fragments go away, the trailing slash goes away, and the query
// shrinks to the parameters that change which media the URL points at:
// Instagram keeps img_index, YouTube keeps v and t, TikTok and SoundCloud
// keep nothing.
func Normalize(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", utils.WrapError(utils.ErrInvalidURL, "URL has no scheme or host", map[string]any{"url": rawURL})
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	if parsed.Path != "/" {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}

	switch Detect(rawURL) {
	case Instagram:
		parsed.RawQuery = keepQueryParams(parsed.Query(), "img_index")
	case YouTube:
		parsed.RawQuery = keepQueryParams(parsed.Query(), "v", "t")
	case TikTok, SoundCloud:
		parsed.RawQuery = ""
	}

	return parsed.String(), nil
}

func keepQueryParams(query url.Values, keys ...string) string {
	kept := url.Values{}
	for _, key := range keys {
		if value := query.Get(key); value != "" {
			kept.Set(key, value)
		}
	}
	return kept.Encode()
}

// ContentType classifies what kind of media a URL points at by its shape.
// Instagram /p/ posts and TikTok /photo/ pages are photo content, SoundCloud
// is audio, everything else defaults to video.
func ContentType(rawURL string) models.MediaType {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return models.MediaTypeVideo
	}
	path := parsed.Path

	switch Detect(rawURL) {
	case SoundCloud:
		return models.MediaTypeAudio
	case Instagram:
		if strings.Contains(path, "/p/") {
			return models.MediaTypePhoto
		}
		return models.MediaTypeVideo
	case TikTok:
		if strings.Contains(path, "/photo/") {
			return models.MediaTypePhoto
		}
		return models.MediaTypeVideo
	default:
		return models.MediaTypeVideo
	}
}
