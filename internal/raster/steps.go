package raster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// autoContrast stretches each channel's histogram over the full 0-255
// range, the equivalent of a zero-cutoff autocontrast.
func autoContrast(img image.Image) image.Image {
	lo := [3]uint8{255, 255, 255}
	hi := [3]uint8{0, 0, 0}

	scan := imaging.Clone(img)
	b := scan.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := scan.Pix[y*scan.Stride : y*scan.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			for ch := 0; ch < 3; ch++ {
				v := row[x+ch]
				if v < lo[ch] {
					lo[ch] = v
				}
				if v > hi[ch] {
					hi[ch] = v
				}
			}
		}
	}

	var scale [3]float64
	for ch := 0; ch < 3; ch++ {
		if hi[ch] > lo[ch] {
			scale[ch] = 255.0 / float64(hi[ch]-lo[ch])
		} else {
			scale[ch] = 0 // flat channel stays untouched
		}
	}

	return imaging.AdjustFunc(scan, func(c color.NRGBA) color.NRGBA {
		if scale[0] != 0 {
			c.R = stretch(c.R, lo[0], scale[0])
		}
		if scale[1] != 0 {
			c.G = stretch(c.G, lo[1], scale[1])
		}
		if scale[2] != 0 {
			c.B = stretch(c.B, lo[2], scale[2])
		}
		return c
	})
}

func stretch(v, lo uint8, scale float64) uint8 {
	s := float64(v-lo) * scale
	if s > 255 {
		s = 255
	}
	return uint8(s)
}

// flattenOnWhite composites the image onto an opaque white background,
// using its alpha channel as the blend weight.
func flattenOnWhite(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// palettize converts the image to an indexed palette when it uses at most
// 256 distinct colors. Images with more colors are returned unchanged;
// this step never fails.
func palettize(img image.Image) image.Image {
	const maxColors = 256

	src := imaging.Clone(img)
	b := src.Bounds()

	seen := make(map[color.NRGBA]struct{}, maxColors+1)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			c := color.NRGBA{R: row[x], G: row[x+1], B: row[x+2], A: row[x+3]}
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				if len(seen) > maxColors {
					return img
				}
			}
		}
	}

	palette := make(color.Palette, 0, len(seen))
	for c := range seen {
		palette = append(palette, c)
	}

	out := image.NewPaletted(b, palette)
	draw.Draw(out, b, src, b.Min, draw.Src)
	return out
}

// stripMetadata copies the raw pixel data into a fresh image container of
// the same mode and dimensions. Go's encoders never write EXIF or ICC
// metadata, so this is a pixel-identity safeguard that also drops any
// decoder-attached state. Paletted images keep their palette.
func stripMetadata(img image.Image) image.Image {
	if p, ok := img.(*image.Paletted); ok {
		out := image.NewPaletted(p.Bounds(), append(color.Palette(nil), p.Palette...))
		copy(out.Pix, p.Pix)
		return out
	}
	return imaging.Clone(img)
}
