package media

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	ddconfig "github.com/dreamcatchered/dreamDownloader/internal/config"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const (
	convertTimeout  = 10 * time.Minute
	optimizeTimeout = 10 * time.Minute
	compressTimeout = 15 * time.Minute

	outputTailLimit = 2048
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
	".flac": true,
	".opus": true,
}

// Processor runs ffmpeg/ffprobe operations with bounded concurrency so a
// burst of requests cannot saturate the host CPU.
type Processor struct {
	config        *ddconfig.Config
	conversions   *semaphore.Weighted
	optimizations *semaphore.Weighted
}

var GlobalProcessor *Processor

func InitProcessor(config *ddconfig.Config) {
	GlobalProcessor = NewProcessor(config)
}

func NewProcessor(config *ddconfig.Config) *Processor {
	settings := config.GetDownloadSettings()
	return &Processor{
		config:        config,
		conversions:   semaphore.NewWeighted(int64(settings.MaxConcurrentConversions)),
		optimizations: semaphore.NewWeighted(int64(settings.MaxConcurrentOptimizations)),
	}
}

// runFFmpeg executes ffmpeg at reduced CPU priority. Encoding is background
// work; downloads and the bot loop matter more.
func runFFmpeg(ctx context.Context, timeout time.Duration, args ...string) error {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := niceCommand(runCtx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if runCtx.Err() != nil {
			return runCtx.Err()
		}
		return utils.WrapError(err, "ffmpeg failed", map[string]any{
			"output": tailOutput(string(output)),
		})
	}
	return nil
}

func niceCommand(ctx context.Context, name string, args ...string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, name, args...)
	}
	full := append([]string{"-n", "15", name}, args...)
	return exec.CommandContext(ctx, "nice", full...)
}

func tailOutput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= outputTailLimit {
		return s
	}
	return s[len(s)-outputTailLimit:]
}

func isAudioFile(path string) bool {
	dot := strings.LastIndex(path, ".")
	if dot < 0 {
		return false
	}
	return audioExtensions[strings.ToLower(path[dot:])]
}
