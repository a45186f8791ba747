package video

import (
	"context"
	"os"
	"os/exec"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/platform"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

// GalleryDL downloads photo posts and carousels with the gallery-dl binary.
// It handles multi-image posts that yt-dlp refuses to extract.
type GalleryDL struct {
	url         string
	contentType models.MediaType
	cookiesFile string
	config      *ddconfig.Config
}

func NewGalleryDL(rawURL string, contentType models.MediaType, cookiesFile string, config *ddconfig.Config) *GalleryDL {
	return &GalleryDL{
		url:         rawURL,
		contentType: contentType,
		cookiesFile: cookiesFile,
		config:      config,
	}
}

func (d *GalleryDL) Platform() string {
	return platform.Detect(d.url).String()
}

func (d *GalleryDL) ContentType() models.MediaType {
	return d.contentType
}

func (d *GalleryDL) buildArgs(destDir string) []string {
	// -D flattens output into the task directory instead of
	// gallery-dl's per-site tree.
	args := []string{"-D", destDir, "--no-part"}

	if d.config.ProxyURL != "" {
		args = append(args, "--proxy", d.config.ProxyURL)
	}
	if d.cookiesFile != "" {
		args = append(args, "--cookies", d.cookiesFile)
	}

	return append(args, d.url)
}

func (d *GalleryDL) Download(ctx context.Context, destDir string) (*downloader.Result, error) {
	cmd := exec.CommandContext(ctx, "gallery-dl", d.buildArgs(destDir)...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = gracefulStopTimeout

	output, err := cmd.CombinedOutput()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err != nil {
		outStr := string(output)
		logutils.Log.WithError(err).WithField("url", d.url).Errorf("gallery-dl failed: %s", tail(outStr, stderrTailLimit))
		return nil, utils.WrapError(classifyOutput(outStr), "gallery-dl failed", map[string]any{
			"url":    d.url,
			"output": tail(outStr, stderrTailLimit),
		})
	}

	files, err := downloader.CollectFiles(destDir, downloader.MinValidFileSize)
	if err != nil {
		return nil, utils.WrapError(err, "failed to collect downloaded files", nil)
	}
	if len(files) == 0 {
		return nil, utils.WrapError(utils.ErrNoMediaFound, "gallery-dl produced no files", map[string]any{"url": d.url})
	}

	return &downloader.Result{
		Title: titleFromFiles(files),
		Files: files,
	}, nil
}

var _ downloader.Downloader = (*GalleryDL)(nil)
