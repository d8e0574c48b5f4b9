package raster

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/FolkXa/mediaconv/internal/format"
	"github.com/FolkXa/mediaconv/internal/options"
)

// Step is one transform in the pipeline: a named pure function from image
// to image.
type Step struct {
	Name  string
	Apply func(image.Image) (image.Image, error)
}

// Plan is the resolved conversion plan for one image: the target format,
// the ordered transform steps, and the final save parameters. Building a
// plan performs no pixel work.
type Plan struct {
	Format format.Image
	Steps  []Step
	Save   SaveParams
}

// ResolveFormat determines the output format, in priority order: the
// explicit format option, the output path's extension if recognized, the
// source format. An unrecognized explicit format is a hard error; so is a
// source format that cannot be encoded.
func ResolveFormat(explicit, outputPath, sourceFormat string) (format.Image, error) {
	if explicit != "" {
		f, ok := format.LookupImage(explicit)
		if !ok {
			return format.Image{}, fmt.Errorf("%w: %q", format.ErrUnsupportedFormat, explicit)
		}
		return f, nil
	}
	if ext := filepath.Ext(outputPath); ext != "" {
		if f, ok := format.LookupImage(ext); ok {
			return f, nil
		}
	}
	f, ok := format.LookupImage(sourceFormat)
	if !ok {
		return format.Image{}, fmt.Errorf("%w: cannot encode source format %q", format.ErrUnsupportedFormat, sourceFormat)
	}
	return f, nil
}

// BuildPlan assembles the transform steps and save parameters for one
// conversion. Steps are appended in a fixed order: resize, filters
// (sharpen, blur, auto-contrast), watermark, format normalization,
// metadata strip. Spec and format errors surface here, before any pixel
// is touched.
func BuildPlan(src SourceInfo, outputPath string, opts options.ConversionOptions, logger *slog.Logger) (*Plan, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := ResolveFormat(opts.Format, outputPath, src.Format)
	if err != nil {
		return nil, err
	}

	p := &Plan{Format: f}

	if opts.Resize != "" {
		width, height, err := options.ParseResizeSpec(opts.Resize, src.Width, src.Height)
		if err != nil {
			return nil, err
		}
		p.add("resize", func(img image.Image) (image.Image, error) {
			return imaging.Resize(img, width, height, imaging.Lanczos), nil
		})
	}

	if opts.Sharpen {
		p.add("sharpen", func(img image.Image) (image.Image, error) {
			return imaging.Sharpen(img, 1.0), nil
		})
	}
	if opts.Blur {
		sigma := opts.BlurRadius
		if sigma <= 0 {
			sigma = 1.0
		}
		p.add("blur", func(img image.Image) (image.Image, error) {
			return imaging.Blur(img, sigma), nil
		})
	}
	if opts.AutoEnhance {
		p.add("auto-contrast", func(img image.Image) (image.Image, error) {
			return autoContrast(img), nil
		})
	}

	if opts.Watermark != nil {
		p.Steps = append(p.Steps, watermarkStep(*opts.Watermark, logger))
	}

	// Format normalization: targets without alpha get the image flattened
	// onto white; palette-capable targets may be palettized when
	// optimization is requested (best effort).
	if !f.Alpha {
		p.add("flatten", func(img image.Image) (image.Image, error) {
			return flattenOnWhite(img), nil
		})
	}
	if f.Palette && (opts.Optimize || opts.Compress) {
		p.add("palettize", func(img image.Image) (image.Image, error) {
			return palettize(img), nil
		})
	}

	if opts.StripMetadata {
		p.add("strip-metadata", func(img image.Image) (image.Image, error) {
			return stripMetadata(img), nil
		})
	}

	quality, applies, err := options.ResolveImageQuality(opts.Quality, f)
	if err != nil {
		return nil, err
	}
	p.Save = SaveParams{
		Optimize:    opts.Optimize || opts.Compress,
		Progressive: opts.Progressive && f.Progressive,
	}
	if applies {
		p.Save.Quality = quality
	}

	return p, nil
}

// Run applies the plan's steps to img in order.
func (p *Plan) Run(img image.Image) (image.Image, error) {
	for _, step := range p.Steps {
		out, err := step.Apply(img)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name, err)
		}
		img = out
	}
	return img, nil
}

// StepNames returns the ordered step names, mainly for logging and tests.
func (p *Plan) StepNames() []string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Name
	}
	return names
}

func (p *Plan) add(name string, fn func(image.Image) (image.Image, error)) {
	p.Steps = append(p.Steps, Step{Name: name, Apply: fn})
}

// Thumbnail scales img to fit within width x height, preserving the aspect
// ratio.
func Thumbnail(img image.Image, width, height int) image.Image {
	return imaging.Fit(img, width, height, imaging.Lanczos)
}
