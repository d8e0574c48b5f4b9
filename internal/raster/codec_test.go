package raster

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FolkXa/mediaconv/internal/format"
)

func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "src.png")
	img := imaging.New(8, 6, color.NRGBA{R: 100, G: 150, B: 200, A: 255})
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestDecode(t *testing.T) {
	path := writeTestPNG(t, t.TempDir())

	img, src, err := Decode(path)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "png", src.Format)
	assert.Equal(t, 8, src.Width)
	assert.Equal(t, 6, src.Height)
	assert.False(t, src.HasAlpha)
}

func TestDecodeDetectsAlpha(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alpha.png")
	img := imaging.New(4, 4, color.NRGBA{R: 10, A: 128})
	require.NoError(t, imaging.Save(img, path))

	_, src, err := Decode(path)
	require.NoError(t, err)
	assert.True(t, src.HasAlpha)
}

func TestDecodeErrors(t *testing.T) {
	_, _, err := Decode(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o600))
	_, _, err = Decode(garbage)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestSaveRoundTripPreservesPixels(t *testing.T) {
	dir := t.TempDir()
	c := NewCodec("", "", nil)

	img := imaging.New(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	img.SetNRGBA(2, 2, color.NRGBA{R: 250, G: 100, B: 5, A: 255})

	out := filepath.Join(dir, "out.png")
	require.NoError(t, c.Save(img, out, "png", SaveParams{}))

	back, src, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "png", src.Format)
	assert.Equal(t, img.Pix, imaging.Clone(back).Pix)
}

func TestSaveJPEG(t *testing.T) {
	dir := t.TempDir()
	c := NewCodec("", "", nil)

	img := imaging.New(16, 16, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	out := filepath.Join(dir, "out.jpg")
	require.NoError(t, c.Save(img, out, "jpeg", SaveParams{Quality: 85}))

	_, src, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", src.Format)
}

func TestEncodeUnknownFormat(t *testing.T) {
	c := NewCodec("", "", nil)
	var buf bytes.Buffer
	img := imaging.New(2, 2, color.NRGBA{A: 255})

	err := c.Encode(&buf, img, "heic", SaveParams{})
	assert.ErrorIs(t, err, format.ErrUnsupportedFormat)
}

func TestEstimateSize(t *testing.T) {
	c := NewCodec("", "", nil)
	img := imaging.New(32, 32, color.NRGBA{R: 7, G: 7, B: 7, A: 255})

	optimized, err := c.EstimateSize(img, "png", SaveParams{Optimize: true})
	require.NoError(t, err)
	assert.Positive(t, optimized)

	plain, err := c.EstimateSize(img, "png", SaveParams{})
	require.NoError(t, err)
	assert.LessOrEqual(t, optimized, plain)
}

func TestWebPEncoderTempDir(t *testing.T) {
	dir := t.TempDir()
	e := NewWebPEncoder("", dir)

	tmp := e.tempPath(".png")
	assert.Equal(t, dir, filepath.Dir(tmp))
	assert.Equal(t, ".png", filepath.Ext(tmp))

	// An empty tempDir falls back to the system temp directory.
	e = NewWebPEncoder("", "")
	assert.Equal(t, os.TempDir(), filepath.Dir(e.tempPath(".webp")))
}

func TestWebPEncoderUnavailable(t *testing.T) {
	e := NewWebPEncoder(filepath.Join(t.TempDir(), "no-such-cwebp"), "")
	assert.ErrorIs(t, e.Available(), ErrEncoderUnavailable)

	img := imaging.New(2, 2, color.NRGBA{A: 255})
	err := e.Encode(img, filepath.Join(t.TempDir(), "out.webp"), SaveParams{Quality: 80})
	assert.ErrorIs(t, err, ErrEncoderUnavailable)
}
