// Package raster implements the in-process image conversion pipeline: a
// decode/encode codec built on the imaging library and a pipeline builder
// that turns ConversionOptions into an ordered list of transform steps plus
// save parameters.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"

	"github.com/disintegration/imaging"

	// Input decoders beyond the stdlib set.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/FolkXa/mediaconv/internal/format"
)

// ErrDecode is returned when an input image cannot be decoded.
var ErrDecode = errors.New("decode image")

// SourceInfo describes a decoded source image.
type SourceInfo struct {
	// Format is the detected format name as reported by the decoder
	// (e.g. "jpeg", "png", "webp").
	Format string
	Width  int
	Height int
	// HasAlpha reports whether the image carries a non-opaque alpha
	// channel.
	HasAlpha bool
}

// SaveParams are the format-specific encoder parameters assembled by the
// pipeline builder.
type SaveParams struct {
	// Quality is the lossy quality (1-100); zero when the format is
	// lossless and quality does not apply.
	Quality int
	// Optimize requests the encoder's best-compression mode.
	Optimize bool
	// Progressive requests progressive encoding where supported.
	Progressive bool
}

// Codec decodes and encodes raster images. Built-in formats go through the
// imaging library; webp output is delegated to the external cwebp binary.
type Codec struct {
	cwebp  *WebPEncoder
	logger *slog.Logger
}

// NewCodec creates a Codec. cwebpPath may be empty to resolve "cwebp" from
// PATH; it is only consulted when webp output is requested. tempDir holds
// the encoder's scratch files, defaulting to the operating system's temp
// directory when empty.
func NewCodec(cwebpPath, tempDir string, logger *slog.Logger) *Codec {
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{cwebp: NewWebPEncoder(cwebpPath, tempDir), logger: logger}
}

// Decode reads and decodes an image file, returning the pixel data along
// with the detected format and geometry.
func Decode(path string) (image.Image, SourceInfo, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the CLI invocation
	if err != nil {
		return nil, SourceInfo{}, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, name, err := image.Decode(f)
	if err != nil {
		return nil, SourceInfo{}, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}

	b := img.Bounds()
	return img, SourceInfo{
		Format:   name,
		Width:    b.Dx(),
		Height:   b.Dy(),
		HasAlpha: hasAlpha(img),
	}, nil
}

// Save encodes img to path using the canonical format name and the given
// save parameters.
func (c *Codec) Save(img image.Image, path, formatName string, p SaveParams) error {
	if formatName == "webp" {
		return c.cwebp.Encode(img, path, p)
	}

	f, err := os.Create(path) // #nosec G304 - path comes from the CLI invocation
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := c.Encode(f, img, formatName, p); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// Encode writes img to w in the named format. webp is file-based (external
// encoder) and is rejected here.
func (c *Codec) Encode(w io.Writer, img image.Image, formatName string, p SaveParams) error {
	imgFormat, opts, err := c.encoderFor(formatName, p)
	if err != nil {
		return err
	}
	if err := imaging.Encode(w, img, imgFormat, opts...); err != nil {
		return fmt.Errorf("encode %s: %w", formatName, err)
	}
	return nil
}

// EstimateSize encodes img in memory and returns the byte length the saved
// file would have. For webp the encode goes through a temporary file.
func (c *Codec) EstimateSize(img image.Image, formatName string, p SaveParams) (int64, error) {
	if formatName == "webp" {
		return c.cwebp.EstimateSize(img, p)
	}
	var buf bytes.Buffer
	if err := c.Encode(&buf, img, formatName, p); err != nil {
		return 0, err
	}
	return int64(buf.Len()), nil
}

func (c *Codec) encoderFor(formatName string, p SaveParams) (imaging.Format, []imaging.EncodeOption, error) {
	switch formatName {
	case "jpeg":
		if p.Progressive {
			// The Go JPEG encoder only writes baseline JPEGs.
			c.logger.Warn("progressive encoding is not supported by the jpeg encoder, writing baseline")
		}
		return imaging.JPEG, []imaging.EncodeOption{imaging.JPEGQuality(p.Quality)}, nil
	case "png":
		level := png.DefaultCompression
		if p.Optimize {
			level = png.BestCompression
		}
		return imaging.PNG, []imaging.EncodeOption{imaging.PNGCompressionLevel(level)}, nil
	case "gif":
		return imaging.GIF, []imaging.EncodeOption{imaging.GIFNumColors(256)}, nil
	case "tiff":
		return imaging.TIFF, nil, nil
	case "bmp":
		return imaging.BMP, nil, nil
	default:
		return 0, nil, fmt.Errorf("%w: %q", format.ErrUnsupportedFormat, formatName)
	}
}

// hasAlpha reports whether the image has any translucent pixel. All stdlib
// image types expose Opaque; anything else is assumed opaque.
func hasAlpha(img image.Image) bool {
	type opaquer interface{ Opaque() bool }
	if o, ok := img.(opaquer); ok {
		return !o.Opaque()
	}
	return false
}
