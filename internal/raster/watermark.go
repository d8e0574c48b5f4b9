package raster

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/FolkXa/mediaconv/internal/options"
)

// Watermark defaults applied when the corresponding field is zero.
const (
	defaultWatermarkOpacity = 0.5
	defaultWatermarkRatio   = 0.1
	watermarkMargin         = 10
)

// watermarkStep overlays the watermark image onto the canvas. Watermark
// failures (missing file, undecodable image) are logged and leave the
// canvas unchanged; they never abort the conversion.
func watermarkStep(wm options.Watermark, logger *slog.Logger) Step {
	return Step{
		Name: "watermark",
		Apply: func(img image.Image) (image.Image, error) {
			out, err := applyWatermark(img, wm)
			if err != nil {
				logger.Warn("could not add watermark",
					slog.String("watermark", wm.Path),
					slog.String("error", err.Error()),
				)
				return img, nil
			}
			return out, nil
		},
	}
}

func applyWatermark(img image.Image, wm options.Watermark) (image.Image, error) {
	mark, err := imaging.Open(wm.Path)
	if err != nil {
		return nil, fmt.Errorf("open watermark: %w", err)
	}

	b := img.Bounds()
	canvasW, canvasH := b.Dx(), b.Dy()

	ratio := wm.SizeRatio
	if ratio <= 0 {
		ratio = defaultWatermarkRatio
	}
	size := int(float64(min(canvasW, canvasH)) * ratio)
	if size < 1 {
		size = 1
	}
	mark = imaging.Fit(mark, size, size, imaging.Lanczos)

	opacity := wm.Opacity
	if opacity <= 0 {
		opacity = defaultWatermarkOpacity
	}

	mb := mark.Bounds()
	pos := watermarkPosition(canvasW, canvasH, mb.Dx(), mb.Dy(), wm.Position)

	// Clone promotes the canvas to an alpha-capable mode; Overlay scales
	// the watermark's alpha by the opacity factor and blends with it.
	canvas := imaging.Clone(img)
	return imaging.Overlay(canvas, mark, pos, opacity), nil
}

// watermarkPosition computes the top-left corner for the watermark. Edge
// positions keep a 10-pixel margin; unrecognized positions fall back to
// top-left.
func watermarkPosition(canvasW, canvasH, markW, markH int, pos options.WatermarkPosition) image.Point {
	switch pos {
	case options.TopRight:
		return image.Pt(canvasW-markW-watermarkMargin, watermarkMargin)
	case options.BottomLeft:
		return image.Pt(watermarkMargin, canvasH-markH-watermarkMargin)
	case options.BottomRight:
		return image.Pt(canvasW-markW-watermarkMargin, canvasH-markH-watermarkMargin)
	case options.Center:
		return image.Pt((canvasW-markW)/2, (canvasH-markH)/2)
	default:
		return image.Pt(watermarkMargin, watermarkMargin)
	}
}
