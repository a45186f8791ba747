package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const (
	// evenScaleFilter rounds dimensions up to even values and forces square
	// pixels. Odd dimensions break yuv420p; a missing SAR stretches vertical
	// videos on some players.
	evenScaleFilter = "scale=ceil(iw/2)*2:ceil(ih/2)*2,setsar=1"

	compressAudioBitrateKbps = 128
	minVideoBitrateKbps      = 50
	fallbackVideoBitrateKbps = 100
)

// NeedsOptimization decides whether a video should be re-encoded before it
// goes to Telegram. When the file cannot be probed the answer is yes, since
// sending an unverified container tends to fail anyway.
func (p *Processor) NeedsOptimization(ctx context.Context, path string) (bool, string) {
	size := utils.FileSize(path)
	if size > p.config.GetMediaSettings().OptimizeThreshold {
		return true, fmt.Sprintf("file size %s exceeds the upload threshold", utils.FormatBytes(size))
	}

	info, err := p.Probe(ctx, path)
	if err != nil {
		return true, "could not verify codec, re-encoding to be safe"
	}
	if info.Codec != "h264" {
		return true, fmt.Sprintf("video codec is %s, needs H.264", info.Codec)
	}
	if info.IsVertical() && !info.HasAspectRatio() {
		return true, fmt.Sprintf("vertical video %dx%d without aspect ratio metadata", info.Width, info.Height)
	}
	return false, ""
}

func buildOptimizeArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-c:v", "libx264",
		"-preset", "superfast",
		"-crf", "26",
		"-profile:v", "main",
		"-pix_fmt", "yuv420p",
		"-vf", evenScaleFilter,
		"-c:a", "aac",
		"-b:a", "128k",
		"-ac", "2",
		"-movflags", "+faststart",
		"-metadata:s:v:0", "rotate=0",
		outputPath,
	}
}

// OptimizeForTelegram re-encodes a video into the H.264/AAC shape Telegram
// clients play everywhere. Returns the path of the new file.
func (p *Processor) OptimizeForTelegram(ctx context.Context, inputPath, outputDir string) (string, error) {
	if err := p.optimizations.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.optimizations.Release(1)

	outputPath := filepath.Join(outputDir, baseName(inputPath)+"_optimized.mp4")
	logutils.Log.WithField("input", inputPath).Info("Optimizing video for Telegram")

	if err := runFFmpeg(ctx, optimizeTimeout, buildOptimizeArgs(inputPath, outputPath)...); err != nil {
		return "", utils.WrapError(err, "video optimization failed", map[string]any{"input": inputPath})
	}
	if utils.FileSize(outputPath) == 0 {
		return "", utils.WrapError(utils.ErrDownloadFailed, "optimization produced an empty file", map[string]any{"input": inputPath})
	}
	return outputPath, nil
}

// compressBitrateKbps computes the video bitrate that fits targetBytes after
// reserving room for the audio track, with a 10% safety margin.
func compressBitrateKbps(targetBytes int64, durationSeconds float64) int {
	targetBits := float64(targetBytes) * 8
	audioBits := compressAudioBitrateKbps * 1024 * durationSeconds

	videoBits := targetBits - audioBits
	var kbps float64
	if videoBits <= 0 {
		kbps = fallbackVideoBitrateKbps
	} else {
		kbps = videoBits / durationSeconds / 1024
	}

	kbps *= 0.9
	if kbps < minVideoBitrateKbps {
		kbps = minVideoBitrateKbps
	}
	return int(kbps)
}

func buildCompressArgs(inputPath, outputPath string, bitrateKbps int) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-c:v", "libx264",
		"-b:v", fmt.Sprintf("%dk", bitrateKbps),
		"-maxrate", fmt.Sprintf("%dk", bitrateKbps*3/2),
		"-bufsize", fmt.Sprintf("%dk", bitrateKbps*2),
		"-preset", "medium",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		outputPath,
	}
}

// CompressToTarget squeezes a video under the configured size with one-pass
// variable bitrate. Quality drops with length; that is the trade-off for a
// single upload limit.
func (p *Processor) CompressToTarget(ctx context.Context, inputPath, outputDir string) (string, error) {
	if err := p.optimizations.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.optimizations.Release(1)

	duration, err := p.ProbeDuration(ctx, inputPath)
	if err != nil {
		return "", err
	}

	target := p.config.GetMediaSettings().CompressTarget
	bitrate := compressBitrateKbps(target, duration)
	logutils.Log.WithFields(map[string]any{
		"input":    inputPath,
		"duration": duration,
		"bitrate":  fmt.Sprintf("%dk", bitrate),
	}).Info("Compressing video to target size")

	outputPath := filepath.Join(outputDir, baseName(inputPath)+"_compressed.mp4")
	if err := runFFmpeg(ctx, compressTimeout, buildCompressArgs(inputPath, outputPath, bitrate)...); err != nil {
		return "", utils.WrapError(err, "video compression failed", map[string]any{"input": inputPath})
	}
	if utils.FileSize(outputPath) == 0 {
		return "", utils.WrapError(utils.ErrDownloadFailed, "compression produced an empty file", map[string]any{"input": inputPath})
	}
	return outputPath, nil
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
