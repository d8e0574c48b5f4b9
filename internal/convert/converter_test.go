package convert

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FolkXa/mediaconv/internal/format"
	"github.com/FolkXa/mediaconv/internal/options"
	"github.com/FolkXa/mediaconv/internal/raster"
	"github.com/FolkXa/mediaconv/internal/video"
)

func newTestConverter(workers int) *Converter {
	codec := raster.NewCodec("", "", nil)
	runner := video.NewRunner(filepath.Join(os.TempDir(), "no-such-ffmpeg"), "", 0)
	return New(codec, runner, workers, nil)
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := imaging.New(10, 10, color.NRGBA{R: 40, G: 80, B: 120, A: 255})
	require.NoError(t, imaging.Save(img, path))
}

func TestImageConvertsToNewFormat(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.jpg")
	writePNG(t, in)

	c := newTestConverter(1)
	res := c.Image(context.Background(), in, out, options.ConversionOptions{Format: "jpg"})
	require.True(t, res.OK(), res.Reason())

	_, src, err := raster.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", src.Format)
}

func TestImageResize(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writePNG(t, in)

	c := newTestConverter(1)
	res := c.Image(context.Background(), in, out, options.ConversionOptions{Resize: "5x5"})
	require.True(t, res.OK(), res.Reason())

	_, src, err := raster.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 5, src.Width)
	assert.Equal(t, 5, src.Height)
}

func TestImageRepeatConversionsByteIdentical(t *testing.T) {
	// The same input with the same options must produce the same output
	// size on every run.
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in)

	opts := options.ConversionOptions{Format: "jpg", Quality: options.NumericQuality(80), Resize: "8x8"}
	c := newTestConverter(1)

	first := filepath.Join(dir, "first.jpg")
	res := c.Image(context.Background(), in, first, opts)
	require.True(t, res.OK(), res.Reason())

	second := filepath.Join(dir, "second.jpg")
	res = c.Image(context.Background(), in, second, opts)
	require.True(t, res.OK(), res.Reason())

	a, err := os.Stat(first)
	require.NoError(t, err)
	b, err := os.Stat(second)
	require.NoError(t, err)
	assert.Equal(t, a.Size(), b.Size())
}

func TestImageMissingInput(t *testing.T) {
	dir := t.TempDir()
	c := newTestConverter(1)

	res := c.Image(context.Background(), filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"), options.ConversionOptions{})
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, ErrInputNotFound)
}

func TestImageUnsupportedInputExtension(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.svg")
	require.NoError(t, os.WriteFile(in, []byte("<svg/>"), 0o600))

	c := newTestConverter(1)
	res := c.Image(context.Background(), in, filepath.Join(dir, "out.png"), options.ConversionOptions{})
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, format.ErrUnsupportedInputFormat)
}

func TestImageUnsupportedTargetAbortsBeforeOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.heic")
	writePNG(t, in)

	c := newTestConverter(1)
	res := c.Image(context.Background(), in, out, options.ConversionOptions{Format: "heic"})
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, format.ErrUnsupportedFormat)

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "no output file may be created")
}

func TestImageCreatesOutputDirectory(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "nested", "deep", "out.png")
	writePNG(t, in)

	c := newTestConverter(1)
	res := c.Image(context.Background(), in, out, options.ConversionOptions{})
	require.True(t, res.OK(), res.Reason())
	assert.FileExists(t, out)
}

func TestImageCancelledContext(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestConverter(1)
	res := c.Image(ctx, in, filepath.Join(dir, "out.png"), options.ConversionOptions{})
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestVideoEncoderUnavailable(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mp4")
	require.NoError(t, os.WriteFile(in, []byte("stub"), 0o600))

	c := newTestConverter(1)
	res := c.Video(context.Background(), in, filepath.Join(dir, "out.mp4"), options.ConversionOptions{})
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, video.ErrEncoderUnavailable)
}
