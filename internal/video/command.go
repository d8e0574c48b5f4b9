// Package video builds ffmpeg invocations from conversion options and runs
// them, streaming encoder progress. The argument order is load-bearing:
// ffmpeg applies several flags positionally relative to the input and
// output, so BuildArgs emits a fixed sequence.
package video

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/FolkXa/mediaconv/internal/format"
	"github.com/FolkXa/mediaconv/internal/options"
)

// Invocation is an immutable ffmpeg argument vector, consumed exactly once
// per conversion attempt.
type Invocation struct {
	args   []string
	output string
}

// Args returns a copy of the argument vector.
func (inv Invocation) Args() []string {
	return append([]string(nil), inv.args...)
}

// Output returns the output path the invocation writes to.
func (inv Invocation) Output() string { return inv.output }

func (inv Invocation) String() string { return strings.Join(inv.args, " ") }

// BuildArgs maps conversion options to an ffmpeg argument vector. Element
// order: input, trim window, video codec, quality block (CRF + speed
// preset), bitrate, scale filter, frame rate, audio, container flags,
// overwrite flag, output. Unknown codec, preset, or container names are
// validation errors; nothing is silently substituted.
func BuildArgs(inputPath, outputPath string, opts options.ConversionOptions) (Invocation, error) {
	args := []string{"-i", inputPath}

	if opts.StartTime != "" {
		args = append(args, "-ss", opts.StartTime)
	}
	if opts.Duration != "" {
		args = append(args, "-t", opts.Duration)
	}

	codec := opts.VideoCodec
	if codec == "" {
		codec = format.DefaultVideoCodec
	}
	encoder, ok := format.VideoCodec(codec)
	if !ok {
		return Invocation{}, fmt.Errorf("%w: video codec %q", format.ErrUnsupportedFormat, opts.VideoCodec)
	}
	args = append(args, "-c:v", encoder)

	quality, err := options.ResolveVideoQuality(opts.Quality)
	if err != nil {
		return Invocation{}, err
	}
	// AV1 rate control does not take CRF the same way; only the speed
	// preset is emitted for it.
	if codec != "av1" {
		args = append(args, "-crf", strconv.Itoa(quality.CRF))
	}
	speed := quality.SpeedPreset
	if opts.Preset != "" {
		if !format.IsSpeedPreset(opts.Preset) {
			return Invocation{}, fmt.Errorf("%w: encoder preset %q", format.ErrUnsupportedFormat, opts.Preset)
		}
		speed = opts.Preset
	}
	args = append(args, "-preset", speed)

	// An explicit bitrate is appended after the CRF; the encoder decides
	// which wins. The builder deliberately suppresses neither.
	if opts.Bitrate != "" {
		args = append(args, "-b:v", opts.Bitrate)
	}

	if opts.Resolution != "" {
		width, height, err := options.ParseResolution(opts.Resolution)
		if err != nil {
			return Invocation{}, err
		}
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", width, height))
	}

	if opts.FPS > 0 {
		args = append(args, "-r", strconv.Itoa(opts.FPS))
	}

	audio := opts.AudioCodec
	if audio == "" {
		audio = format.DefaultAudioCodec
	}
	if audio == "none" {
		args = append(args, "-an")
	} else {
		encoder, ok := format.AudioCodec(audio)
		if !ok {
			return Invocation{}, fmt.Errorf("%w: audio codec %q", format.ErrUnsupportedFormat, opts.AudioCodec)
		}
		args = append(args, "-c:a", encoder)
	}

	container, err := resolveContainer(opts.Format, outputPath)
	if err != nil {
		return Invocation{}, err
	}
	if container == "mp4" {
		// Move the moov atom up front so the file can start streaming
		// before the download finishes.
		args = append(args, "-movflags", "+faststart")
	}

	args = append(args, "-y", outputPath)

	return Invocation{args: args, output: outputPath}, nil
}

// resolveContainer determines the output container: the explicit format
// option, then the output extension, then the default. An unrecognized
// explicit format is an error; an unrecognized extension falls back to the
// default container.
func resolveContainer(explicit, outputPath string) (string, error) {
	if explicit != "" {
		name := strings.ToLower(explicit)
		if !format.IsVideoContainer(name) {
			return "", fmt.Errorf("%w: container %q", format.ErrUnsupportedFormat, explicit)
		}
		return name, nil
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), ".")
	if format.IsVideoContainer(ext) {
		return ext, nil
	}
	return format.DefaultVideoContainer, nil
}
