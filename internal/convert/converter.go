package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/FolkXa/mediaconv/internal/format"
	"github.com/FolkXa/mediaconv/internal/options"
	"github.com/FolkXa/mediaconv/internal/raster"
	"github.com/FolkXa/mediaconv/internal/video"
)

// Converter orchestrates conversions. It owns no per-file state; the same
// Converter may be used for any number of files, concurrently.
type Converter struct {
	codec  *raster.Codec
	runner *video.Runner
	// workers bounds concurrent batch items (and thereby concurrent
	// external encoder processes).
	workers int
	logger  *slog.Logger
	// Progress, when set, receives raw encoder timestamps during video
	// conversion.
	Progress video.ProgressFunc
}

// New creates a Converter. workers values below 1 are treated as 1
// (sequential batch processing, the default behavior).
func New(codec *raster.Codec, runner *video.Runner, workers int, logger *slog.Logger) *Converter {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{codec: codec, runner: runner, workers: workers, logger: logger}
}

// Image converts a single image file. All failures are reported through
// the Result; this method never panics or returns an error to the caller.
func (c *Converter) Image(ctx context.Context, inputPath, outputPath string, opts options.ConversionOptions) Result {
	err := c.convertImage(ctx, inputPath, outputPath, opts)
	if err != nil {
		c.logger.Error("image conversion failed",
			slog.String("input", inputPath),
			slog.String("error", err.Error()),
		)
	}
	return Result{Input: inputPath, Output: outputPath, Err: err}
}

func (c *Converter) convertImage(ctx context.Context, inputPath, outputPath string, opts options.ConversionOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}
	if ext := filepath.Ext(inputPath); !format.IsImageInput(ext) {
		return fmt.Errorf("%w: %q", format.ErrUnsupportedInputFormat, ext)
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	// An unrecognized explicit format must abort before any pixel work,
	// so it is checked ahead of the decode.
	if opts.Format != "" {
		if _, ok := format.LookupImage(opts.Format); !ok {
			return fmt.Errorf("%w: %q", format.ErrUnsupportedFormat, opts.Format)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	img, src, err := raster.Decode(inputPath)
	if err != nil {
		return err
	}

	plan, err := raster.BuildPlan(src, outputPath, opts, c.logger)
	if err != nil {
		return err
	}

	c.logger.Debug("image plan built",
		slog.String("input", inputPath),
		slog.String("format", plan.Format.Name),
		slog.Any("steps", plan.StepNames()),
	)

	out, err := plan.Run(img)
	if err != nil {
		return err
	}

	return c.codec.Save(out, outputPath, plan.Format.Name, plan.Save)
}

// Video converts a single video file through the external encoder. The
// encoder's exit status alone is not trusted: the output must also exist
// with a non-zero size, guarding against truncated writes.
func (c *Converter) Video(ctx context.Context, inputPath, outputPath string, opts options.ConversionOptions) Result {
	err := c.convertVideo(ctx, inputPath, outputPath, opts)
	if err != nil {
		c.logger.Error("video conversion failed",
			slog.String("input", inputPath),
			slog.String("error", err.Error()),
		)
	}
	return Result{Input: inputPath, Output: outputPath, Err: err}
}

func (c *Converter) convertVideo(ctx context.Context, inputPath, outputPath string, opts options.ConversionOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.runner.Available(); err != nil {
		return err
	}
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("%w: %s", ErrInputNotFound, inputPath)
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	inv, err := video.BuildArgs(inputPath, outputPath, opts)
	if err != nil {
		return err
	}

	c.logger.Debug("ffmpeg invocation built",
		slog.String("input", inputPath),
		slog.String("args", inv.String()),
	)

	if err := c.runner.Convert(ctx, inv, c.Progress); err != nil {
		return err
	}

	info, err := os.Stat(outputPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEncodeFailure, outputPath)
	}
	return nil
}
