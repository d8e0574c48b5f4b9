// Package cli implements the mediaconv command-line interface: argument
// parsing for the video and image subcommands, option assembly, and exit
// code policy. All conversion logic lives in internal/convert.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/FolkXa/mediaconv/internal/config"
	"github.com/FolkXa/mediaconv/internal/convert"
	"github.com/FolkXa/mediaconv/internal/raster"
	"github.com/FolkXa/mediaconv/internal/video"
)

// app bundles the initialized dependencies for one CLI invocation.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	conv   *convert.Converter
	codec  *raster.Codec
	runner *video.Runner
}

func newApp(cfg *config.Config, logger *slog.Logger) *app {
	codec := raster.NewCodec(cfg.CWebPPath, cfg.TempDir, logger)
	runner := video.NewRunner(cfg.FFmpegPath, cfg.FFprobePath, cfg.FFmpegTimeout)
	return &app{
		cfg:    cfg,
		logger: logger,
		conv:   convert.New(codec, runner, cfg.MaxWorkers, logger),
		codec:  codec,
		runner: runner,
	}
}

// Run executes the CLI with the given arguments (without the program name)
// and returns the process exit code: 0 on success, 1 on any failure.
func Run(args []string) int {
	if len(args) < 1 {
		printUsage()
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	a := newApp(cfg, logger)

	switch args[0] {
	case "video":
		return a.videoCmd(args[1:])
	case "image":
		return a.imageCmd(args[1:])
	case "extract-audio":
		return a.extractAudioCmd(args[1:])
	case "thumbnail":
		return a.thumbnailCmd(args[1:])
	case "info":
		return a.infoCmd(args[1:])
	case "formats":
		return a.formatsCmd()
	case "help", "--help", "-h":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `mediaconv - convert and compress videos and images

Usage:
  mediaconv <command> [flags] <input...>

Commands:
  video          Convert and compress videos (ffmpeg)
  image          Convert and compress images
  extract-audio  Extract the audio track from a video
  thumbnail      Create a thumbnail from an image or a video frame
  info           Show media file information
  formats        List supported formats, containers, and codecs
  help           Show this help

Video flags:
  -o, --output        Output file path (or directory with --batch)
  -f, --format        Output container (mp4, mkv, webm, avi, mov, flv, m4v)
  -q, --quality       Quality preset: low, medium, high, lossless
  -r, --resolution    Output resolution, e.g. 1920x1080
  -b, --bitrate       Video bitrate, e.g. 2M, 1000k
  --fps               Frame rate
  --start             Clip start time (HH:MM:SS)
  --duration          Clip duration (HH:MM:SS)
  --video-codec       h264, h265, vp9, av1
  --audio-codec       aac, mp3, opus, none
  --preset            Encoder speed preset (ultrafast..veryslow)
  --compress          Enable compression defaults
  --batch             Treat inputs as a batch, output to a directory

Image flags:
  -o, --output        Output file or directory path
  -f, --format        Output format (jpg, jpeg, png, webp, tiff, bmp, gif)
  -q, --quality       Quality 1-100 or preset: low, medium, high, maximum
  --resize            Resize spec, e.g. 1920x1080, 800x, 50%, 800
  --optimize          Optimize file size
  --compress          Enable compression (implies --optimize)
  --progressive       Progressive encoding where supported
  --strip-metadata    Remove EXIF data
  --sharpen           Sharpen the image
  --blur              Gaussian blur
  --blur-radius       Blur radius (default 1.0)
  --auto-enhance      Auto-contrast
  --watermark         Watermark image path
  --watermark-position  top-left, top-right, bottom-left, bottom-right, center
  --watermark-opacity   Watermark opacity 0-1 (default 0.5)
  --watermark-size      Watermark size ratio 0-1 (default 0.1)
  --batch             Treat inputs as a batch, output to a directory

Common flags:
  --profile           Named option profile (built-in or from --profile-file)
  --profile-file      YAML file with extra profiles

Environment:
  FFMPEG_PATH, FFPROBE_PATH, CWEBP_PATH, TEMP_DIR, MAX_WORKERS,
  FFMPEG_TIMEOUT, LOG_FORMAT, LOG_LEVEL
`)
}
