package media

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const (
	videoNoteMaxSeconds  = 60.0
	videoNoteBackground  = "color=c=0x1a1a1a:s=640x640:d=1"
	videoNoteCropFilter  = "crop=min(iw\\,ih):min(iw\\,ih),scale=640:640"
	videoNoteAudioFilter = "scale=640:640:force_original_aspect_ratio=decrease,pad=640:640:(ow-iw)/2:(oh-ih)/2"
)

// ExtractMP3 pulls the audio track into an MP3 at the best VBR quality.
func (p *Processor) ExtractMP3(ctx context.Context, inputPath, outputDir string) (string, error) {
	if err := p.conversions.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.conversions.Release(1)

	outputPath := filepath.Join(outputDir, "audio.mp3")
	args := []string{
		"-y",
		"-i", inputPath,
		"-q:a", "0",
		"-map", "a",
		outputPath,
	}
	if err := runFFmpeg(ctx, convertTimeout, args...); err != nil {
		return "", utils.WrapError(err, "mp3 conversion failed", map[string]any{"input": inputPath})
	}
	return outputPath, nil
}

// ConvertToVoice encodes the audio track as an OGG/Opus voice message.
// Telegram renders it with the waveform player only in this format.
func (p *Processor) ConvertToVoice(ctx context.Context, inputPath, outputDir string) (string, error) {
	if err := p.conversions.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.conversions.Release(1)

	outputPath := filepath.Join(outputDir, "voice.ogg")
	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-c:a", "libopus",
		"-b:a", "32k",
		"-vbr", "on",
		"-application", "voip",
		outputPath,
	}
	if err := runFFmpeg(ctx, convertTimeout, args...); err != nil {
		return "", utils.WrapError(err, "voice conversion failed", map[string]any{"input": inputPath})
	}
	return outputPath, nil
}

// ConvertToVideoNote produces the square, sub-minute MP4 Telegram shows as a
// round video note. Audio-only input plays over a generated dark background.
func (p *Processor) ConvertToVideoNote(ctx context.Context, inputPath, outputDir string) (string, error) {
	if err := p.conversions.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer p.conversions.Release(1)

	outputPath := filepath.Join(outputDir, "videonote.mp4")

	var args []string
	if isAudioFile(inputPath) {
		backgroundPath := filepath.Join(outputDir, "bg.png")
		bgArgs := []string{
			"-y",
			"-f", "lavfi",
			"-i", videoNoteBackground,
			"-frames:v", "1",
			backgroundPath,
		}
		if err := runFFmpeg(ctx, convertTimeout, bgArgs...); err != nil {
			return "", utils.WrapError(err, "background generation failed", map[string]any{"input": inputPath})
		}

		duration, err := p.ProbeDuration(ctx, inputPath)
		if err != nil {
			return "", err
		}
		if duration > videoNoteMaxSeconds {
			duration = videoNoteMaxSeconds
		}

		args = []string{
			"-y",
			"-loop", "1",
			"-i", backgroundPath,
			"-i", inputPath,
			"-vf", videoNoteAudioFilter,
			"-c:v", "libx264",
			"-tune", "stillimage",
			"-c:a", "aac",
			"-b:a", "64k",
			"-pix_fmt", "yuv420p",
			"-shortest",
			"-t", fmt.Sprintf("%.1f", duration),
			outputPath,
		}
	} else {
		args = []string{
			"-y",
			"-i", inputPath,
			"-vf", videoNoteCropFilter,
			"-c:v", "libx264",
			"-crf", "26",
			"-c:a", "aac",
			"-b:a", "64k",
			"-t", "60",
			outputPath,
		}
	}

	logutils.Log.WithField("input", inputPath).Info("Converting to video note")
	if err := runFFmpeg(ctx, convertTimeout, args...); err != nil {
		return "", utils.WrapError(err, "video note conversion failed", map[string]any{"input": inputPath})
	}
	return outputPath, nil
}
