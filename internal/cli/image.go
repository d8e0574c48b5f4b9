package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/FolkXa/mediaconv/internal/convert"
	"github.com/FolkXa/mediaconv/internal/options"
)

type imageFlags struct {
	output        string
	format        string
	quality       string
	resize        string
	optimize      bool
	compress      bool
	progressive   bool
	stripMetadata bool
	sharpen       bool
	blur          bool
	blurRadius    float64
	autoEnhance   bool
	watermark     string
	wmPosition    string
	wmOpacity     float64
	wmSize        float64
	batch         bool
	profileName   string
	profileFile   string
}

func (a *app) imageCmd(args []string) int {
	var ifl imageFlags
	fs := flag.NewFlagSet("image", flag.ContinueOnError)
	fs.StringVar(&ifl.output, "o", "", "output path")
	fs.StringVar(&ifl.output, "output", "", "output path")
	fs.StringVar(&ifl.format, "f", "", "output format")
	fs.StringVar(&ifl.format, "format", "", "output format")
	fs.StringVar(&ifl.quality, "q", "", "quality value or preset")
	fs.StringVar(&ifl.quality, "quality", "", "quality value or preset")
	fs.StringVar(&ifl.resize, "resize", "", "resize spec")
	fs.BoolVar(&ifl.optimize, "optimize", false, "optimize file size")
	fs.BoolVar(&ifl.compress, "compress", false, "enable compression")
	fs.BoolVar(&ifl.progressive, "progressive", false, "progressive encoding")
	fs.BoolVar(&ifl.stripMetadata, "strip-metadata", false, "remove EXIF data")
	fs.BoolVar(&ifl.sharpen, "sharpen", false, "sharpen the image")
	fs.BoolVar(&ifl.blur, "blur", false, "gaussian blur")
	fs.Float64Var(&ifl.blurRadius, "blur-radius", 0, "blur radius")
	fs.BoolVar(&ifl.autoEnhance, "auto-enhance", false, "auto-contrast")
	fs.StringVar(&ifl.watermark, "watermark", "", "watermark image path")
	fs.StringVar(&ifl.wmPosition, "watermark-position", "", "watermark position")
	fs.Float64Var(&ifl.wmOpacity, "watermark-opacity", 0, "watermark opacity")
	fs.Float64Var(&ifl.wmSize, "watermark-size", 0, "watermark size ratio")
	fs.BoolVar(&ifl.batch, "batch", false, "batch mode")
	fs.StringVar(&ifl.profileName, "profile", "", "option profile name")
	fs.StringVar(&ifl.profileFile, "profile-file", "", "profile YAML file")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input files given")
		return 1
	}

	opts := options.ConversionOptions{
		Format:        ifl.format,
		Resize:        ifl.resize,
		Optimize:      ifl.optimize,
		Compress:      ifl.compress,
		Progressive:   ifl.progressive,
		StripMetadata: ifl.stripMetadata,
		Sharpen:       ifl.sharpen,
		Blur:          ifl.blur,
		BlurRadius:    ifl.blurRadius,
		AutoEnhance:   ifl.autoEnhance,
	}
	opts.Quality = options.ParseQuality(ifl.quality)
	if ifl.watermark != "" {
		opts.Watermark = &options.Watermark{
			Path:      ifl.watermark,
			Position:  options.WatermarkPosition(ifl.wmPosition),
			Opacity:   ifl.wmOpacity,
			SizeRatio: ifl.wmSize,
		}
	}
	if err := applyProfile(ifl.profileName, ifl.profileFile, &opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	ctx := context.Background()

	if ifl.batch || len(inputs) > 1 {
		outDir := ifl.output
		if outDir == "" {
			outDir = "."
		}
		results := a.conv.Batch(ctx, convert.KindImage, inputs, outDir, opts)
		return reportBatch(results, len(inputs))
	}

	input := inputs[0]
	output := imageOutputPath(input, ifl.output, opts)
	res := a.conv.Image(ctx, input, output, opts)
	if !res.OK() {
		fmt.Fprintf(os.Stderr, "error: %s: %s\n", input, res.Reason())
		return 1
	}
	fmt.Printf("converted %s -> %s\n", input, res.Output)
	return 0
}

// imageOutputPath resolves the output path for a single image. An explicit
// output that names an existing directory keeps the input's base name; no
// output places the result next to the input with the target extension.
func imageOutputPath(input, output string, opts options.ConversionOptions) string {
	if output != "" {
		if info, err := os.Stat(output); err == nil && info.IsDir() {
			return filepath.Join(output, replaceExt(filepath.Base(input), opts.Format))
		}
		return output
	}
	out := filepath.Join(filepath.Dir(input), replaceExt(filepath.Base(input), opts.Format))
	if out == input {
		ext := filepath.Ext(input)
		out = strings.TrimSuffix(input, ext) + "_converted" + ext
	}
	return out
}

// replaceExt swaps the file extension for the target format, or keeps the
// original extension when no format was requested.
func replaceExt(base, formatName string) string {
	if formatName == "" {
		return base
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "." + strings.ToLower(strings.TrimPrefix(formatName, "."))
}
