package video

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/kkdai/youtube/v2"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/platform"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const maxVideoHeight = 1080

var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?)/|shorts/|live/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// YouTube downloads a video through the YouTube API directly, without
// spawning yt-dlp. Only progressive formats are considered so no merge
// step is needed.
type YouTube struct {
	url      string
	config   *ddconfig.Config
	progress func(percent float64)
}

func NewYouTube(rawURL string, config *ddconfig.Config, progress func(float64)) *YouTube {
	return &YouTube{url: rawURL, config: config, progress: progress}
}

func (d *YouTube) Platform() string {
	return platform.YouTube.String()
}

func (d *YouTube) ContentType() models.MediaType {
	return models.MediaTypeVideo
}

// ExtractVideoID pulls the 11-character video ID out of any of the usual
// YouTube URL shapes (watch, shorts, embed, youtu.be, live).
func ExtractVideoID(rawURL string) (string, error) {
	match := videoIDPattern.FindStringSubmatch(rawURL)
	if len(match) < 2 {
		return "", utils.WrapError(utils.ErrInvalidURL, "could not extract YouTube video ID", map[string]any{"url": rawURL})
	}
	return match[1], nil
}

func (d *YouTube) client() *youtube.Client {
	client := &youtube.Client{}
	if proxyURL := d.config.ParsedProxyURL(); proxyURL != nil {
		client.HTTPClient = &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
		}
	}
	return client
}

// bestProgressiveFormat picks the highest-resolution MP4 that carries its
// own audio track, capped at maxVideoHeight.
func bestProgressiveFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		format := &formats[i]
		if format.AudioQuality == "" {
			continue
		}
		if !isMP4(format.MimeType) {
			continue
		}
		if format.Height > maxVideoHeight {
			continue
		}
		if best == nil || format.Height > best.Height {
			best = format
		}
	}
	return best
}

func isMP4(mimeType string) bool {
	return len(mimeType) >= 9 && mimeType[:9] == "video/mp4"
}

func (d *YouTube) Download(ctx context.Context, destDir string) (*downloader.Result, error) {
	videoID, err := ExtractVideoID(d.url)
	if err != nil {
		return nil, err
	}

	client := d.client()
	video, err := client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, utils.WrapError(err, "failed to fetch video metadata", map[string]any{"video_id": videoID})
	}

	format := bestProgressiveFormat(video.Formats)
	if format == nil {
		return nil, utils.WrapError(utils.ErrNoMediaFound, "no progressive MP4 format available", map[string]any{"video_id": videoID})
	}
	logutils.Log.WithFields(map[string]any{
		"video_id": videoID,
		"itag":     format.ItagNo,
		"height":   format.Height,
	}).Debugf("selected native format for %q", video.Title)

	stream, size, err := client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, utils.WrapError(err, "failed to open video stream", map[string]any{"video_id": videoID})
	}
	defer stream.Close()

	filePath := filepath.Join(destDir, utils.SanitizeFileName(video.Title)+".mp4")
	if err := saveStream(ctx, stream, filePath, size, d.progress); err != nil {
		return nil, utils.WrapError(err, "failed to save video stream", map[string]any{"video_id": videoID})
	}

	written := utils.FileSize(filePath)
	if written < downloader.MinValidFileSize {
		os.Remove(filePath)
		return nil, utils.WrapError(utils.ErrNoMediaFound, "stream produced an empty file", map[string]any{"video_id": videoID})
	}

	return &downloader.Result{
		Title: video.Title,
		Files: []downloader.File{{
			Path:      filePath,
			Size:      written,
			MediaType: models.MediaTypeVideo,
		}},
	}, nil
}

func saveStream(ctx context.Context, stream io.Reader, filePath string, totalSize int64, progress func(float64)) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}

	reader := io.Reader(stream)
	if progress != nil && totalSize > 0 {
		reader = &progressReader{reader: stream, total: totalSize, report: progress}
	}

	_, err = io.Copy(file, readerWithContext(ctx, reader))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filePath)
		return err
	}
	return nil
}

// progressReader reports copy progress as a percentage of the known
// content length.
type progressReader struct {
	reader io.Reader
	total  int64
	read   int64
	report func(float64)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.read += int64(n)
		r.report(float64(r.read) / float64(r.total) * 100)
	}
	return n, err
}

// readerWithContext aborts a long io.Copy when the context is cancelled,
// since the response body itself does not observe ctx between reads.
func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, reader: r}
}

type ctxReader struct {
	ctx    context.Context
	reader io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.reader.Read(p)
}

var _ downloader.Downloader = (*YouTube)(nil)
