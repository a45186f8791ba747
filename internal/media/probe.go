package media

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/dreamcatchered/dreamDownloader/internal/utils"
)

const probeTimeout = 10 * time.Second

// VideoInfo is the subset of ffprobe output the pipeline decides on.
type VideoInfo struct {
	Width              int
	Height             int
	Duration           float64
	Codec              string
	Rotation           int
	DisplayAspectRatio string
}

// IsVertical reports whether the frame is taller than wide.
func (v *VideoInfo) IsVertical() bool {
	return v.Height > v.Width
}

// HasAspectRatio reports whether the container declares a usable DAR.
// Players stretch vertical videos that lack one.
func (v *VideoInfo) HasAspectRatio() bool {
	return v.DisplayAspectRatio != "" && v.DisplayAspectRatio != "N/A"
}

type probeStream struct {
	CodecName          string `json:"codec_name"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	Duration           string `json:"duration"`
	DisplayAspectRatio string `json:"display_aspect_ratio"`
	Tags               struct {
		Rotate string `json:"rotate"`
	} `json:"tags"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads the first video stream's geometry, codec and duration.
func (p *Processor) Probe(ctx context.Context, path string) (*VideoInfo, error) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := niceCommand(probeCtx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,duration,display_aspect_ratio:format=duration",
		"-of", "json",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, utils.WrapError(err, "ffprobe failed", map[string]any{"path": path})
	}

	var parsed probeOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return nil, utils.WrapError(err, "failed to parse ffprobe output", map[string]any{"path": path})
	}

	info := &VideoInfo{Duration: parseSeconds(parsed.Format.Duration)}
	if len(parsed.Streams) > 0 {
		stream := parsed.Streams[0]
		info.Codec = strings.ToLower(stream.CodecName)
		info.Width = stream.Width
		info.Height = stream.Height
		info.DisplayAspectRatio = stream.DisplayAspectRatio
		info.Rotation = parseRotation(stream.Tags.Rotate)
		if info.Duration == 0 {
			info.Duration = parseSeconds(stream.Duration)
		}
	}
	return info, nil
}

// ProbeDuration returns the container duration in seconds. Works for pure
// audio files too, unlike Probe's video-stream fields.
func (p *Processor) ProbeDuration(ctx context.Context, path string) (float64, error) {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := niceCommand(probeCtx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, utils.WrapError(err, "ffprobe failed", map[string]any{"path": path})
	}

	duration := parseSeconds(strings.TrimSpace(string(output)))
	if duration <= 0 {
		return 0, utils.WrapError(utils.ErrDownloadFailed, "file has no usable duration", map[string]any{"path": path})
	}
	return duration, nil
}

func parseSeconds(s string) float64 {
	if s == "" || s == "N/A" {
		return 0
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return value
}

func parseRotation(s string) int {
	if s == "" {
		return 0
	}
	value, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return value
}
