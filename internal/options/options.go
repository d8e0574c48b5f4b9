// Package options defines the declarative option set for a conversion and
// the parsers that resolve user input (resize specs, quality presets) into
// concrete encoder parameters.
package options

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Static errors for option parsing and resolution.
var (
	// ErrInvalidSpec is returned when a resize or resolution spec string
	// does not match any accepted form.
	ErrInvalidSpec = errors.New("invalid resize spec")
	// ErrUnknownPreset is returned when a named quality preset is not
	// recognized.
	ErrUnknownPreset = errors.New("unknown quality preset")
	// ErrQualityOutOfRange is returned when a numeric quality falls
	// outside the 1-100 range.
	ErrQualityOutOfRange = errors.New("quality must be between 1 and 100")
)

// WatermarkPosition enumerates watermark placements on the canvas.
type WatermarkPosition string

// Watermark placements. Edge positions keep a 10-pixel margin.
const (
	TopLeft     WatermarkPosition = "top-left"
	TopRight    WatermarkPosition = "top-right"
	BottomLeft  WatermarkPosition = "bottom-left"
	BottomRight WatermarkPosition = "bottom-right"
	Center      WatermarkPosition = "center"
)

// Watermark configures an overlay image.
type Watermark struct {
	// Path is the watermark image file.
	Path string `validate:"required"`
	// Position selects the placement; unrecognized values fall back to
	// top-left.
	Position WatermarkPosition
	// Opacity scales the watermark's alpha channel. Zero means the
	// default of 0.5.
	Opacity float64 `validate:"gte=0,lte=1"`
	// SizeRatio sizes the watermark relative to the shorter canvas edge.
	// Zero means the default of 0.1.
	SizeRatio float64 `validate:"gte=0,lte=1"`
}

// ConversionOptions is the immutable-once-built option bag for a single
// conversion. The zero value of every field means "unset"; unset fields
// take the documented defaults at resolution time.
type ConversionOptions struct {
	// Format is the output format tag. When empty it is inferred from the
	// output path extension, falling back to the source format.
	Format string
	// Quality is a numeric quality (1-100) or a named preset. Unset means
	// 85 for lossy image formats and the "medium" preset for video.
	Quality Quality

	// Image options.
	Resize        string
	Optimize      bool
	Compress      bool
	StripMetadata bool
	Progressive   bool
	Sharpen       bool
	Blur          bool
	// BlurRadius is the gaussian blur sigma. Zero means the default of 1.0.
	BlurRadius  float64 `validate:"gte=0"`
	AutoEnhance bool
	Watermark   *Watermark

	// Video options.
	VideoCodec string
	AudioCodec string
	Bitrate    string
	FPS        int `validate:"gte=0"`
	StartTime  string
	Duration   string
	Resolution string
	// Preset is the encoder speed/quality tradeoff name. When set it
	// overrides the speed preset implied by the quality preset.
	Preset string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks structural constraints on the option set. Format, codec,
// and spec strings are validated separately by their resolvers so that the
// error can name the offending value.
func (o *ConversionOptions) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	return nil
}
