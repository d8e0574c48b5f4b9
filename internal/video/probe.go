package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// ProbeResult is the subset of ffprobe's JSON output the tool reports.
type ProbeResult struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
}

// ProbeFormat describes the container.
type ProbeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// ProbeStream describes one media stream.
type ProbeStream struct {
	Index      int    `json:"index"`
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	FrameRate  string `json:"r_frame_rate,omitempty"`
	SampleRate string `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
}

// Probe runs ffprobe against the file and decodes the format and stream
// information.
func (r *Runner) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	if _, err := exec.LookPath(r.ffprobePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProbeUnavailable, r.ffprobePath)
	}

	// #nosec G204 - the binary path is configuration, not user input
	cmd := exec.CommandContext(ctx, r.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ffprobe failed: %w, stderr: %s", err, stderr.String())
	}

	var result ProbeResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}
	return &result, nil
}

// ExtractAudio strips the video stream and writes the audio track in the
// requested format (mp3, aac, wav, ...).
func (r *Runner) ExtractAudio(ctx context.Context, inputPath, outputPath, audioFormat string) error {
	codec := audioFormat
	if audioFormat == "mp3" {
		codec = "libmp3lame"
	}
	inv := Invocation{
		args: []string{
			"-i", inputPath,
			"-vn",
			"-acodec", codec,
			"-y", outputPath,
		},
		output: outputPath,
	}
	return r.Convert(ctx, inv, nil)
}

// FrameThumbnail grabs a single frame at the given timestamp (HH:MM:SS)
// and writes it as an image.
func (r *Runner) FrameThumbnail(ctx context.Context, inputPath, outputPath, timestamp string) error {
	if timestamp == "" {
		timestamp = "00:00:01"
	}
	inv := Invocation{
		args: []string{
			"-i", inputPath,
			"-ss", timestamp,
			"-vframes", "1",
			"-y", outputPath,
		},
		output: outputPath,
	}
	return r.Convert(ctx, inv, nil)
}
