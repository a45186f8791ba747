package video

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/downloader"
	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/models"
	"github.com/dreamcatchered/dreamDownloader/internal/platform"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const (
	defaultQuality      = "best[height<=1080]/best"
	audioQuality        = "bestaudio/best"
	gracefulStopTimeout = 5 * time.Second
	stderrTailLimit     = 2048
)

// YTDLP downloads a single URL with the yt-dlp binary into the task
// directory.
type YTDLP struct {
	url         string
	contentType models.MediaType
	cookiesFile string
	config      *ddconfig.Config
	progress    func(percent float64)
}

func NewYTDLP(rawURL string, contentType models.MediaType, cookiesFile string, config *ddconfig.Config, progress func(float64)) *YTDLP {
	return &YTDLP{
		url:         rawURL,
		contentType: contentType,
		cookiesFile: cookiesFile,
		config:      config,
		progress:    progress,
	}
}

func (d *YTDLP) Platform() string {
	return platform.Detect(d.url).String()
}

func (d *YTDLP) ContentType() models.MediaType {
	return d.contentType
}

func (d *YTDLP) buildArgs(destDir string) []string {
	args := []string{
		"--newline",
		"--no-playlist",
		"--no-warnings",
	}

	if d.contentType == models.MediaTypeAudio {
		// Cover art and the info json feed the title/performer tags on the
		// audio upload.
		args = append(args, "-f", audioQuality, "-x", "--audio-format", "mp3",
			"--write-thumbnail", "--write-info-json")
	} else {
		args = append(args, "-f", defaultQuality)
	}

	args = append(args, "-o", filepath.Join(destDir, "%(title).80s.%(ext)s"))

	if d.config.ProxyURL != "" {
		args = append(args, "--proxy", d.config.ProxyURL)
	}
	if d.cookiesFile != "" {
		args = append(args, "--cookies", d.cookiesFile)
	}

	return append(args, d.url)
}

func (d *YTDLP) Download(ctx context.Context, destDir string) (*downloader.Result, error) {
	cmd := exec.CommandContext(ctx, "yt-dlp", d.buildArgs(destDir)...)
	// Give yt-dlp a chance to finalize partial files before the hard kill.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = gracefulStopTimeout

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, utils.WrapError(err, "failed to create stdout pipe", nil)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, utils.WrapError(err, "failed to create stderr pipe", nil)
	}

	if err := cmd.Start(); err != nil {
		return nil, utils.WrapError(err, "failed to start yt-dlp", map[string]any{"url": d.url})
	}

	stderrOutput := make(chan string, 1)
	go func() {
		defer close(stderrOutput)
		scanner := bufio.NewScanner(stderr)
		var output strings.Builder
		for scanner.Scan() {
			output.WriteString(scanner.Text() + "\n")
		}
		stderrOutput <- output.String()
	}()

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "[download]") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		percentStr := strings.TrimSuffix(fields[1], "%")
		if percent, parseErr := strconv.ParseFloat(percentStr, 64); parseErr == nil {
			logutils.Log.WithField("url", d.url).Debugf("yt-dlp progress: %.1f%%", percent)
			if d.progress != nil {
				d.progress(percent)
			}
		}
	}

	waitErr := cmd.Wait()
	output := <-stderrOutput

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if waitErr != nil {
		logutils.Log.WithError(waitErr).WithField("url", d.url).Errorf("yt-dlp failed: %s", tail(output, stderrTailLimit))
		return nil, utils.WrapError(classifyOutput(output), "yt-dlp failed", map[string]any{
			"url":    d.url,
			"stderr": tail(output, stderrTailLimit),
		})
	}

	files, err := downloader.CollectFiles(destDir, downloader.MinValidFileSize)
	if err != nil {
		return nil, utils.WrapError(err, "failed to collect downloaded files", nil)
	}
	if len(files) == 0 {
		return nil, utils.WrapError(utils.ErrNoMediaFound, "yt-dlp produced no files", map[string]any{"url": d.url})
	}

	return &downloader.Result{
		Title: titleFromFiles(files),
		Files: files,
	}, nil
}

// titleFromFiles derives a human title from the largest file name, since the
// output template embeds the media title.
func titleFromFiles(files []downloader.File) string {
	largest := files[0]
	for _, f := range files {
		if f.Size > largest.Size {
			largest = f
		}
	}
	base := filepath.Base(largest.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}

var _ downloader.Downloader = (*YTDLP)(nil)
