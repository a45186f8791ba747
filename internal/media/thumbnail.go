package media

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const (
	thumbnailTimeout = 10 * time.Second
	thumbnailFilter  = "scale=320:320:force_original_aspect_ratio=decrease"
	// Telegram rejects thumbnails over 200 KiB.
	thumbnailMaxSize = 200 * 1024
)

// Thumbnail grabs a frame one second in and scales it to Telegram's preview
// size. Oversized results get one recompression pass at lower quality.
func (p *Processor) Thumbnail(ctx context.Context, videoPath, outputDir string) (string, error) {
	thumbnailPath := filepath.Join(outputDir, baseName(videoPath)+"_thumb.jpg")
	args := []string{
		"-y",
		"-ss", "1",
		"-i", videoPath,
		"-vf", thumbnailFilter,
		"-frames:v", "1",
		"-q:v", "2",
		thumbnailPath,
	}
	if err := runFFmpeg(ctx, thumbnailTimeout, args...); err != nil {
		return "", utils.WrapError(err, "thumbnail generation failed", map[string]any{"video": videoPath})
	}

	size := utils.FileSize(thumbnailPath)
	if size == 0 {
		return "", utils.WrapError(utils.ErrDownloadFailed, "thumbnail file not created", map[string]any{"video": videoPath})
	}

	if size > thumbnailMaxSize {
		logutils.Log.WithField("size", utils.FormatBytes(size)).Debug("Thumbnail too large, recompressing")
		tempPath := filepath.Join(outputDir, baseName(videoPath)+"_thumb_tmp.jpg")
		compressArgs := []string{
			"-y",
			"-i", thumbnailPath,
			"-vf", thumbnailFilter,
			"-q:v", "5",
			tempPath,
		}
		if err := runFFmpeg(ctx, thumbnailTimeout, compressArgs...); err == nil {
			if recompressed := utils.FileSize(tempPath); recompressed > 0 && recompressed < thumbnailMaxSize {
				if err := os.Rename(tempPath, thumbnailPath); err != nil {
					os.Remove(tempPath)
				}
			} else {
				os.Remove(tempPath)
			}
		}
	}

	return thumbnailPath, nil
}
